// internal/config/config.go
package config

import (
	"bufio"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ServiceName 은 로그의 service 필드에 박히는 고정 식별자.
const ServiceName = "uistat-report"

// DefaultPath 는 --config 플래그를 생략했을 때 읽는 설정 파일 경로.
const DefaultPath = "./config"

// Config
//
// 분석 배치 한 번의 실행에 필요한 모든 설정 값을 보관하는 구조체.
// 모든 값은 프로세스 시작 시점에 Load() 에 의해 초기화되며,
// 이후에는 변경되지 않는 불변(read-only) 설정들이다.
//
// 설정 파일은 "KEY=VALUE" 한 줄 한 항목 형식이다. 파일에 없는
// 키는 기본값을 쓰고, 구분자(=)가 없는 줄은 전체 실행을 중단시키는
// 설정 오류로 취급한다.
type Config struct {

	// ---------------------------
	// 분석 대상 / 리포트 출력
	// ---------------------------

	ReportSize   int    // 리포트 테이블에 남길 상위 URL 개수 (time_sum 내림차순)
	ReportDir    string // 완성된 HTML 리포트가 저장될 디렉토리
	LogDir       string // nginx access 로그가 쌓이는 디렉토리
	RegistryFile string // 처리 완료 로그 목록 파일 이름 (LOG_DIR 기준 상대 경로)

	TemplateFile string // $table_json placeholder 를 가진 HTML 템플릿 경로
	ResourceDir  string // 리포트 옆에 복사해 둘 정적 리소스 디렉토리 (비우면 복사 생략)

	// ---------------------------
	// Reject 보관 (skip 라인 캡처)
	// ---------------------------

	RejectDir      string // 파싱 실패 라인을 원문 그대로 모아둘 디렉토리 (비우면 비활성)
	RejectMaxBytes int64  // reject 파일 하나의 최대 크기 (초과분은 버림)

	// ---------------------------
	// 로깅
	// ---------------------------

	LogLevel   string // zerolog 레벨 문자열 (debug/info/warn/error)
	LogPretty  bool   // true 면 ConsoleWriter (로컬 실행용)
	LogSampleN uint32 // Debug/Info 로그 샘플링 N (0 또는 1 이면 샘플링 없음)

	// ---------------------------
	// S3 업로드 (선택)
	// ---------------------------
	// Retry 정책 단일화
	// --------------------------------------------
	// AWS SDK v2 기본 retry는 서비스 상황에 따라 3회까지 수행되며,
	// 코드 레벨 retry 와 겹치면 예측 불가능한 처리 지연이 발생한다.
	//
	// → SDK Retry는 코드에서 0으로 고정한다.
	// → "재시도 횟수"는 오직 애플리케이션 레벨(S3Retries)만 사용한다.
	// --------------------------------------------

	S3Bucket  string        // 리포트를 업로드할 버킷 (비우면 업로드 비활성)
	S3Prefix  string        // 업로드 키 prefix (예: reports)
	S3Region  string        // AWS 리전 (비우면 SDK 기본 체인)
	S3Timeout time.Duration // 각 S3 PutObject 시도당 timeout
	S3Retries int           // S3 업로드 재시도 횟수 (SDK retry는 항상 0)

	// ---------------------------
	// 프로세스 식별자
	// ---------------------------

	InstanceID string // 배치 프로세스 고유 ID (호스트명 기반, 실패 시 랜덤 hex)
}

// Load
//
// 설정 파일을 읽어 Config 값을 초기화한다.
// 파일이 없거나, 줄 형식이 깨졌거나, 값 파싱에 실패하면 에러를
// 돌려주고 호출측(main)이 즉시 종료한다(fail-fast).
// 파일에 없는 키는 운영 기본값으로 채운다.
func Load(path string) (Config, error) {
	values, err := readFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{InstanceID: fallbackInstanceID()}

	cfg.ReportSize, err = intValue(values, "REPORT_SIZE", 1000)
	if err != nil {
		return Config{}, err
	}
	if cfg.ReportSize <= 0 {
		return Config{}, fmt.Errorf("invalid value REPORT_SIZE=%d: must be positive", cfg.ReportSize)
	}
	cfg.ReportDir = strValue(values, "REPORT_DIR", "./reports")
	cfg.LogDir = strValue(values, "LOG_DIR", "./log")
	cfg.RegistryFile = strValue(values, "REGISTRY_FILE", ".processed.txt")

	cfg.TemplateFile = strValue(values, "TEMPLATE_FILE", "./resources/templates/report.html")
	cfg.ResourceDir = strValue(values, "RESOURCE_DIR", "./resources/js")

	cfg.RejectDir = strValue(values, "REJECT_DIR", "")
	cfg.RejectMaxBytes, err = int64Value(values, "REJECT_MAX_BYTES", 1<<20)
	if err != nil {
		return Config{}, err
	}
	if cfg.RejectMaxBytes <= 0 {
		return Config{}, fmt.Errorf("invalid value REJECT_MAX_BYTES=%d: must be positive", cfg.RejectMaxBytes)
	}

	cfg.LogLevel = strValue(values, "LOG_LEVEL", "info")
	cfg.LogPretty, err = boolValue(values, "LOG_PRETTY", false)
	if err != nil {
		return Config{}, err
	}
	cfg.LogSampleN, err = uint32Value(values, "LOG_SAMPLE_N", 0)
	if err != nil {
		return Config{}, err
	}

	cfg.S3Bucket = strValue(values, "S3_BUCKET", "")
	cfg.S3Prefix = strValue(values, "S3_PREFIX", "reports")
	cfg.S3Region = strValue(values, "S3_REGION", "")
	cfg.S3Timeout, err = durValue(values, "S3_TIMEOUT", 5*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.S3Retries, err = intValue(values, "S3_RETRIES", 3)
	if err != nil {
		return Config{}, err
	}
	if cfg.S3Retries <= 0 {
		return Config{}, fmt.Errorf("invalid value S3_RETRIES=%d: must be positive", cfg.S3Retries)
	}

	return cfg, nil
}

// readFile
//
// 설정 파일을 "KEY=VALUE" 맵으로 읽는다.
//   - 구분자는 줄의 첫 번째 '=' 하나. 값에 '=' 가 더 있어도 그대로 보존.
//   - 키/값 양쪽 공백은 잘라낸다.
//   - '=' 없는 줄(빈 줄 포함)은 파일 전체를 불신하고 에러로 끝낸다.
//   - 모르는 키는 무시한다. (롤백된 설정이 남아 있어도 실행은 가능해야 함)
func readFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	values := make(map[string]string)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("wrong format of config line %q: want KEY=VALUE", line)
		}
		values[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return values, nil
}

// strValue / intValue / int64Value / uint32Value / boolValue / durValue
//
// 공통 패턴.
// 키가 없거나 값이 빈 문자열이면 기본값, 형식이 잘못되면 에러.
// 런타임 중간에 설정 오류를 겪지 않도록 전부 Load 시점에 검증한다.
func strValue(values map[string]string, key, def string) string {
	if v, ok := values[key]; ok && v != "" {
		return v
	}
	return def
}

func intValue(values map[string]string, key string, def int) (int, error) {
	v, ok := values[key]
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid int value %s=%q: %w", key, v, err)
	}
	return n, nil
}

func int64Value(values map[string]string, key string, def int64) (int64, error) {
	v, ok := values[key]
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid int64 value %s=%q: %w", key, v, err)
	}
	return n, nil
}

func uint32Value(values map[string]string, key string, def uint32) (uint32, error) {
	v, ok := values[key]
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid uint value %s=%q: %w", key, v, err)
	}
	return uint32(n), nil
}

func boolValue(values map[string]string, key string, def bool) (bool, error) {
	v, ok := values[key]
	if !ok || v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid bool value %s=%q: %w", key, v, err)
	}
	return b, nil
}

func durValue(values map[string]string, key string, def time.Duration) (time.Duration, error) {
	v, ok := values[key]
	if !ok || v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration value %s=%q: %w", key, v, err)
	}
	return d, nil
}

// fallbackInstanceID
//
// 이 배치 프로세스 인스턴스를 식별하는 고유 값.
//   - 기본: hostname (cron 이 도는 서버에서 어느 장비 실행인지 구분)
//   - fallback: 12자리 랜덤 hex
func fallbackInstanceID() string {
	if h, err := os.Hostname(); err == nil && h != "" {
		return h
	}
	// 랜덤 6바이트 → 12자리 hex
	var b [6]byte
	if _, err := rand.Read(b[:]); err == nil {
		return hex.EncodeToString(b[:])
	}
	return strconv.FormatInt(time.Now().UnixNano(), 10)
}
