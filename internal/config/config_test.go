package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "MONGODB_URI", "MONGO_URI", "MONGODB_DATABASE"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.ServerPort != "5000" {
		t.Errorf("ServerPort = %q, want 5000", cfg.ServerPort)
	}
	if cfg.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("MongoURI = %q, want default", cfg.MongoURI)
	}
	if cfg.DatabaseName != "taskdb" {
		t.Errorf("DatabaseName = %q, want taskdb", cfg.DatabaseName)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("MONGODB_DATABASE", "other")

	cfg := Load()
	if cfg.ServerPort != "8081" {
		t.Errorf("ServerPort = %q, want 8081", cfg.ServerPort)
	}
	if cfg.MongoURI != "mongodb://db:27017" {
		t.Errorf("MongoURI = %q", cfg.MongoURI)
	}
	if cfg.DatabaseName != "other" {
		t.Errorf("DatabaseName = %q", cfg.DatabaseName)
	}
}

func TestLoad_MongoURIFallback(t *testing.T) {
	// The older MONGO_URI spelling is honored when MONGODB_URI is unset.
	t.Setenv("MONGODB_URI", "")
	t.Setenv("MONGO_URI", "mongodb://legacy:27017")

	cfg := Load()
	if cfg.MongoURI != "mongodb://legacy:27017" {
		t.Errorf("MongoURI = %q, want legacy fallback", cfg.MongoURI)
	}

	// MONGODB_URI wins when both are set.
	t.Setenv("MONGODB_URI", "mongodb://primary:27017")
	cfg = Load()
	if cfg.MongoURI != "mongodb://primary:27017" {
		t.Errorf("MongoURI = %q, want primary", cfg.MongoURI)
	}
}
