package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/skillcards/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		convey.Reset(clearConfigEnvVars)

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			t.Setenv("SKILLCARDS_ADDR", ":8080")
			t.Setenv("SKILLCARDS_STORE_DRIVER", "sqlite")
			t.Setenv("SKILLCARDS_SQLITE_PATH", "/tmp/cards.db")
			t.Setenv("SKILLCARDS_SEED_SAMPLES", "false")
			t.Setenv("SKILLCARDS_MAX_UPLOAD_BYTES", "1024")
			t.Setenv("SKILLCARDS_REDIS_DB", "3")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.StoreDriver, convey.ShouldEqual, config.DriverSQLite)
				convey.So(cfg.SQLitePath, convey.ShouldEqual, "/tmp/cards.db")
				convey.So(cfg.SeedSamples, convey.ShouldBeFalse)
				convey.So(cfg.MaxUploadBytes, convey.ShouldEqual, 1024)
				convey.So(cfg.RedisDB, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			path := writeConfigFile(t, `
addr: ":9090"
namespace: "team_cards"
log_format: json
cors_origins: "https://cards.example"
`)
			t.Setenv("SKILLCARDS_CONFIG", path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.Namespace, convey.ShouldEqual, "team_cards")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.Origins(), convey.ShouldResemble, []string{"https://cards.example"})
				convey.So(cfg.StoreDriver, convey.ShouldEqual, config.DriverMemory)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			path := writeConfigFile(t, `
addr: ":9090"
namespace: "team_cards"
`)
			t.Setenv("SKILLCARDS_CONFIG", path)
			t.Setenv("SKILLCARDS_ADDR", ":8080")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Namespace, convey.ShouldEqual, "team_cards")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			path := writeConfigFile(t, `invalid: yaml: content: [`)
			t.Setenv("SKILLCARDS_CONFIG", path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			t.Setenv("SKILLCARDS_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			t.Setenv("SKILLCARDS_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an unknown driver", func() {
			t.Setenv("SKILLCARDS_STORE_DRIVER", "bolt")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			t.Setenv("SKILLCARDS_MAX_UPLOAD_BYTES", "lots")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

	})
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func clearConfigEnvVars() {
	for _, name := range []string{
		"SKILLCARDS_CONFIG", "SKILLCARDS_ADDR", "SKILLCARDS_LOG_LEVEL", "SKILLCARDS_LOG_FORMAT",
		"SKILLCARDS_STORE_DRIVER", "SKILLCARDS_SQLITE_PATH", "SKILLCARDS_REDIS_ADDR",
		"SKILLCARDS_REDIS_PASSWORD", "SKILLCARDS_REDIS_DB", "SKILLCARDS_REDIS_PREFIX",
		"SKILLCARDS_NAMESPACE", "SKILLCARDS_SEED_SAMPLES", "SKILLCARDS_CORS_ORIGINS",
		"SKILLCARDS_MAX_UPLOAD_BYTES",
	} {
		_ = os.Unsetenv(name)
	}
}
