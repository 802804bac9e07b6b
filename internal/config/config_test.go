package config

import (
	"bytes"
	"errors"
	"flag"
	"testing"
	"time"

	apperrors "github.com/agbru/lanterncalc/internal/errors"
)

var testAlgos = []string{"bucket", "parallel", "recursive"}

func TestParseConfig_Defaults(t *testing.T) {
	var buf bytes.Buffer
	cfg, err := ParseConfig("lanterncalc", nil, &buf, testAlgos)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Input != DefaultInput {
		t.Errorf("Input = %q, want %q", cfg.Input, DefaultInput)
	}
	if got := cfg.Days.String(); got != "80,256" {
		t.Errorf("Days = %s, want 80,256", got)
	}
	if cfg.Algo != AlgoAll {
		t.Errorf("Algo = %q, want %q", cfg.Algo, AlgoAll)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %s, want %s", cfg.Timeout, DefaultTimeout)
	}
}

func TestParseConfig_Flags(t *testing.T) {
	var buf bytes.Buffer
	args := []string{"--input", "1,2", "--days", "18", "--algo", "bucket", "--timeout", "5s", "-q", "--shared-memo"}
	cfg, err := ParseConfig("lanterncalc", args, &buf, testAlgos)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Input != "1,2" || cfg.Algo != "bucket" || !cfg.Quiet || !cfg.SharedMemo {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if len(cfg.Days) != 1 || cfg.Days[0] != 18 {
		t.Errorf("Days = %v, want [18]", cfg.Days)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %s, want 5s", cfg.Timeout)
	}
}

func TestParseConfig_InputFileReplacesDefaultInput(t *testing.T) {
	var buf bytes.Buffer
	cfg, err := ParseConfig("lanterncalc", []string{"--input-file", "pop.txt"}, &buf, testAlgos)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Input != "" || cfg.InputFile != "pop.txt" {
		t.Errorf("Input = %q, InputFile = %q", cfg.Input, cfg.InputFile)
	}
}

func TestParseConfig_Help(t *testing.T) {
	var buf bytes.Buffer
	_, err := ParseConfig("lanterncalc", []string{"-h"}, &buf, testAlgos)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected flag.ErrHelp, got %v", err)
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown algorithm", []string{"--algo", "magic"}},
		{"negative days", []string{"--days", "-1"}},
		{"too many days", []string{"--days", "5000"}},
		{"zero timeout", []string{"--timeout", "0s"}},
		{"both inputs", []string{"--input", "1", "--input-file", "x"}},
		{"quiet and json", []string{"-q", "--json"}},
		{"repl and server", []string{"--interactive", "--serve", ":8080"}},
		{"tui and repl", []string{"--tui", "--interactive"}},
		{"tui and server", []string{"--tui", "--serve", ":8080"}},
		{"tui and json", []string{"--tui", "--json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			_, err := ParseConfig("lanterncalc", tt.args, &buf, testAlgos)
			var cfgErr apperrors.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %T (%v)", err, err)
			}
		})
	}
}

func TestParseConfig_BadDayList(t *testing.T) {
	var buf bytes.Buffer
	_, err := ParseConfig("lanterncalc", []string{"--days", "80,abc"}, &buf, testAlgos)
	if err == nil {
		t.Fatal("expected an error for a malformed day list")
	}
	if !bytes.Contains(buf.Bytes(), []byte("invalid day count")) {
		t.Errorf("usage output should mention the bad token, got %q", buf.String())
	}
}

func TestParseDayList(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"80", "80", false},
		{" 80 , 256 ", "80,256", false},
		{"", "", true},
		{"80,", "", true},
		{"x", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseDayList(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDayList(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got.String() != tt.want {
				t.Errorf("ParseDayList(%q) = %s, want %s", tt.in, got.String(), tt.want)
			}
		})
	}
}

func TestValidate_ServeWithoutInput(t *testing.T) {
	t.Parallel()
	cfg := Defaults()
	cfg.Input = ""
	cfg.ServeAddr = ":8080"
	if err := cfg.Validate(testAlgos); err != nil {
		t.Errorf("server mode needs no population, got %v", err)
	}

	cfg.ServeAddr = ""
	if err := cfg.Validate(testAlgos); err == nil {
		t.Error("expected error when no population is given")
	}
}

func TestParseConfig_TUI(t *testing.T) {
	var buf bytes.Buffer
	cfg, err := ParseConfig("lanterncalc", []string{"--tui", "--days", "18,80"}, &buf, testAlgos)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if !cfg.TUI {
		t.Error("TUI = false, want true")
	}

	t.Setenv("LANTERNCALC_TUI", "yes")
	cfg, err = ParseConfig("lanterncalc", nil, &buf, testAlgos)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if !cfg.TUI {
		t.Error("TUI from LANTERNCALC_TUI = false, want true")
	}
}
