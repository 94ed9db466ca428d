package config

import (
	"os"
	"testing"
)

func TestConfigLoad_LocalDefaults(t *testing.T) {
	_ = os.Unsetenv("KENANGAN_BUILD_TARGET")
	_ = os.Unsetenv("KENANGAN_STORE_DRIVER")

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.StoreDriver != "sqlite" || cfg.BlobDriver != "fs" || cfg.PushDriver != "log" || cfg.AuthDriver != "static" {
		t.Fatalf("unexpected local driver derivation: %+v", cfg)
	}
	if cfg.GenerateTimeoutSeconds != 60 {
		t.Fatalf("unexpected default generate timeout: %d", cfg.GenerateTimeoutSeconds)
	}
}

func TestConfigLoad_EnvOverride(t *testing.T) {
	_ = os.Setenv("KENANGAN_GEMINI_MODEL", "test-model")
	defer func() { _ = os.Unsetenv("KENANGAN_GEMINI_MODEL") }()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.GeminiModel != "test-model" {
		t.Fatalf("gemini model env override failed, got %s", cfg.GeminiModel)
	}
}

func TestResolveDefaults_CloudRequiresProject(t *testing.T) {
	cfg := &Config{BuildTarget: "cloud", TokenBatchSize: 10}
	if err := cfg.ResolveDefaults(); err == nil {
		t.Fatal("expected error for cloud target without project id")
	}

	cfg = &Config{BuildTarget: "cloud", GCPProjectID: "p", StorageBucket: "b", TokenBatchSize: 10}
	if err := cfg.ResolveDefaults(); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.StoreDriver != "firestore" || cfg.BlobDriver != "gcs" || cfg.PushDriver != "fcm" || cfg.AuthDriver != "firebase" {
		t.Fatalf("unexpected cloud driver derivation: %+v", cfg)
	}
}

func TestResolveDefaults_RejectsUnknownTarget(t *testing.T) {
	cfg := &Config{BuildTarget: "staging", TokenBatchSize: 10}
	if err := cfg.ResolveDefaults(); err == nil {
		t.Fatal("expected error for unknown build target")
	}
}

func TestResolveDefaults_TokenBatchBounds(t *testing.T) {
	cfg := &Config{BuildTarget: "local", TokenBatchSize: 25}
	if err := cfg.ResolveDefaults(); err == nil {
		t.Fatal("expected error for token batch size above the backing query limit")
	}
}
