package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestBuildPostgresDSNFromViper(t *testing.T) {
	v := viper.New()
	if got := BuildPostgresDSNFromViper(v); got != "" {
		t.Fatalf("empty config: got %q", got)
	}

	v.Set("database.user", "estate")
	v.Set("database.password", "secret")
	v.Set("database.dbname", "deposits")
	v.Set("database.host", "db")
	v.Set("database.port", "5433")

	want := "user=estate password=secret dbname=deposits host=db port=5433 pool_max_conns=30 pool_max_conn_lifetime=1h30m"
	if got := BuildPostgresDSNFromViper(v); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestBuildPostgresURLFromViper(t *testing.T) {
	v := viper.New()
	v.Set("database.user", "estate")
	v.Set("database.password", "secret")
	v.Set("database.host", "db")
	v.Set("database.dbname", "deposits")

	want := "postgres://estate:secret@db:5432/deposits?sslmode=disable"
	if got := BuildPostgresURLFromViper(v); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEnvironmentBinding(t *testing.T) {
	t.Setenv("VNP_TMN_CODE", "TMN01")
	t.Setenv("VNP_HASH_SECRET", "topsecret")
	t.Setenv("EXCHANGE_RATE", "24500")
	t.Setenv("VNP_PENDING_TTL", "20m")
	t.Setenv("REDIS_ADDRS", "r1:6379,r2:6379")

	cfg := &config{cfg: newViper()}

	if got := cfg.GetString("vnpay.tmn_code"); got != "TMN01" {
		t.Errorf("vnpay.tmn_code = %q", got)
	}
	if got := cfg.GetString("vnpay.hash_secret"); got != "topsecret" {
		t.Errorf("vnpay.hash_secret = %q", got)
	}
	if got := cfg.GetFloat64("vnpay.exchange_rate"); got != 24500 {
		t.Errorf("vnpay.exchange_rate = %v", got)
	}
	if got := cfg.GetDuration("vnpay.pending_ttl"); got != 20*time.Minute {
		t.Errorf("vnpay.pending_ttl = %v", got)
	}
	if got := cfg.GetStringSlice("redis.addrs"); len(got) != 2 || got[1] != "r2:6379" {
		t.Errorf("redis.addrs = %v", got)
	}
	if got := cfg.GetString("vnpay.timezone"); got != "Asia/Ho_Chi_Minh" {
		t.Errorf("vnpay.timezone default = %q", got)
	}
}
