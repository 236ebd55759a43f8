// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config fixture: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	// 빈 파일 = 모든 키 기본값
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.ReportSize != 1000 {
		t.Errorf("ReportSize = %d, want 1000", cfg.ReportSize)
	}
	if cfg.ReportDir != "./reports" {
		t.Errorf("ReportDir = %q, want ./reports", cfg.ReportDir)
	}
	if cfg.LogDir != "./log" {
		t.Errorf("LogDir = %q, want ./log", cfg.LogDir)
	}
	if cfg.RegistryFile != ".processed.txt" {
		t.Errorf("RegistryFile = %q, want .processed.txt", cfg.RegistryFile)
	}
	if cfg.TemplateFile != "./resources/templates/report.html" {
		t.Errorf("TemplateFile = %q", cfg.TemplateFile)
	}
	if cfg.ResourceDir != "./resources/js" {
		t.Errorf("ResourceDir = %q", cfg.ResourceDir)
	}
	if cfg.RejectDir != "" {
		t.Errorf("RejectDir = %q, want empty", cfg.RejectDir)
	}
	if cfg.RejectMaxBytes != 1<<20 {
		t.Errorf("RejectMaxBytes = %d, want %d", cfg.RejectMaxBytes, 1<<20)
	}
	if cfg.LogLevel != "info" || cfg.LogPretty || cfg.LogSampleN != 0 {
		t.Errorf("log defaults = %q/%v/%d", cfg.LogLevel, cfg.LogPretty, cfg.LogSampleN)
	}
	if cfg.S3Bucket != "" || cfg.S3Prefix != "reports" || cfg.S3Region != "" {
		t.Errorf("s3 defaults = %q/%q/%q", cfg.S3Bucket, cfg.S3Prefix, cfg.S3Region)
	}
	if cfg.S3Timeout != 5*time.Second || cfg.S3Retries != 3 {
		t.Errorf("s3 retry defaults = %v/%d", cfg.S3Timeout, cfg.S3Retries)
	}
	if cfg.InstanceID == "" {
		t.Error("InstanceID is empty")
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t,
		"REPORT_SIZE=25\n"+
			"REPORT_DIR=/var/www/reports\n"+
			"LOG_DIR=/var/log/nginx\n"+
			"REGISTRY_FILE=done.txt\n"+
			"TEMPLATE_FILE=/etc/uistat/report.html\n"+
			"RESOURCE_DIR=/etc/uistat/js\n"+
			"REJECT_DIR=/var/tmp/rejects\n"+
			"REJECT_MAX_BYTES=4096\n"+
			"LOG_LEVEL=debug\n"+
			"LOG_PRETTY=true\n"+
			"LOG_SAMPLE_N=100\n"+
			"S3_BUCKET=stat-reports\n"+
			"S3_PREFIX=ui/daily\n"+
			"S3_REGION=ap-northeast-2\n"+
			"S3_TIMEOUT=30s\n"+
			"S3_RETRIES=5\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.ReportSize != 25 || cfg.ReportDir != "/var/www/reports" || cfg.LogDir != "/var/log/nginx" {
		t.Errorf("core values = %d/%q/%q", cfg.ReportSize, cfg.ReportDir, cfg.LogDir)
	}
	if cfg.RegistryFile != "done.txt" {
		t.Errorf("RegistryFile = %q", cfg.RegistryFile)
	}
	if cfg.TemplateFile != "/etc/uistat/report.html" || cfg.ResourceDir != "/etc/uistat/js" {
		t.Errorf("template values = %q/%q", cfg.TemplateFile, cfg.ResourceDir)
	}
	if cfg.RejectDir != "/var/tmp/rejects" || cfg.RejectMaxBytes != 4096 {
		t.Errorf("reject values = %q/%d", cfg.RejectDir, cfg.RejectMaxBytes)
	}
	if cfg.LogLevel != "debug" || !cfg.LogPretty || cfg.LogSampleN != 100 {
		t.Errorf("log values = %q/%v/%d", cfg.LogLevel, cfg.LogPretty, cfg.LogSampleN)
	}
	if cfg.S3Bucket != "stat-reports" || cfg.S3Prefix != "ui/daily" || cfg.S3Region != "ap-northeast-2" {
		t.Errorf("s3 values = %q/%q/%q", cfg.S3Bucket, cfg.S3Prefix, cfg.S3Region)
	}
	if cfg.S3Timeout != 30*time.Second || cfg.S3Retries != 5 {
		t.Errorf("s3 retry values = %v/%d", cfg.S3Timeout, cfg.S3Retries)
	}
}

func TestLoadLineFormat(t *testing.T) {
	// 첫 번째 '=' 만 구분자. 값 안의 '=' 와 둘레 공백은 보존/정리.
	cfg, err := Load(writeConfig(t, " REPORT_DIR = ./out \nTEMPLATE_FILE=./tpl/a=b.html\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ReportDir != "./out" {
		t.Errorf("ReportDir = %q, want ./out", cfg.ReportDir)
	}
	if cfg.TemplateFile != "./tpl/a=b.html" {
		t.Errorf("TemplateFile = %q, want ./tpl/a=b.html", cfg.TemplateFile)
	}
}

func TestLoadEmptyValueFallsBack(t *testing.T) {
	cfg, err := Load(writeConfig(t, "REPORT_DIR=\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ReportDir != "./reports" {
		t.Errorf("ReportDir = %q, want default ./reports", cfg.ReportDir)
	}
}

func TestLoadUnknownKeyIgnored(t *testing.T) {
	cfg, err := Load(writeConfig(t, "SOME_OLD_KEY=1\nREPORT_SIZE=7\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ReportSize != 7 {
		t.Errorf("ReportSize = %d, want 7", cfg.ReportSize)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"line without separator", "REPORT_SIZE\n"},
		{"blank line", "REPORT_SIZE=10\n\nLOG_DIR=./log\n"},
		{"bad int", "REPORT_SIZE=ten\n"},
		{"zero report size", "REPORT_SIZE=0\n"},
		{"negative report size", "REPORT_SIZE=-5\n"},
		{"bad bool", "LOG_PRETTY=banana\n"},
		{"bad sample n", "LOG_SAMPLE_N=-1\n"},
		{"bad duration", "S3_TIMEOUT=5\n"},
		{"zero retries", "S3_RETRIES=0\n"},
		{"zero reject cap", "REJECT_MAX_BYTES=0\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.content)); err == nil {
				t.Fatalf("Load(%q) succeeded, want error", tc.content)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("Load succeeded for missing file, want error")
	}
}
