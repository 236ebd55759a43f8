// internal/analyzer/reject.go
package analyzer

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"

	"uistat-report/internal/config"
	"uistat-report/internal/metrics"
)

// RejectSink 는 집계에서 건너뛴 라인을 원문 그대로 보관하는 파일이다.
// REJECT_DIR 이 설정된 경우에만 만들어진다. 포맷이 바뀌었거나 소스가
// 오염됐을 때 원본 로그를 다시 뒤지지 않고 여기만 보면 된다.
//
// 실행당 1개 파일: <REJECT_DIR>/<로그 파일명>.rejected (O_TRUNC).
// sink 의 I/O 실패는 분석을 중단시키지 않는다. 경고 1회 후 버린다.
type RejectSink struct {
	f       *os.File
	path    string
	written int64
	max     int64
	metrics *metrics.Metrics

	degraded bool // write 실패 이후. 더 이상 쓰지 않는다
	capped   bool // 용량 초과 경고를 1회만 남기기 위한 상태
}

// NewRejectSink 는 로그 파일명 기준의 reject 파일을 연다.
// REJECT_DIR 이 비어 있으면 (nil, nil). nil sink 도 그대로 쓸 수 있다.
func NewRejectSink(cfg config.Config, m *metrics.Metrics, logBase string) (*RejectSink, error) {
	if cfg.RejectDir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(cfg.RejectDir, 0o755); err != nil {
		return nil, fmt.Errorf("create reject dir: %w", err)
	}

	path := filepath.Join(cfg.RejectDir, logBase+".rejected")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open reject file: %w", err)
	}

	return &RejectSink{f: f, path: path, max: cfg.RejectMaxBytes, metrics: m}, nil
}

// Write 는 라인 1개를 개행 포함으로 기록한다. nil sink 에도 안전하다.
// REJECT_MAX_BYTES 초과분은 드랍하고 세기만 한다.
func (s *RejectSink) Write(line string) {
	if s == nil || s.degraded {
		return
	}

	size := int64(len(line)) + 1 // 개행 포함
	if s.written+size > s.max {
		atomic.AddInt64(&s.metrics.RejectedLinesDroppedTotal, 1)
		if !s.capped {
			s.capped = true
			log.Printf("[WARN] reject file full → dropping further lines: %s cap=%d", s.path, s.max)
		}
		return
	}

	if _, err := fmt.Fprintln(s.f, line); err != nil {
		s.degraded = true
		log.Printf("[WARN] reject file write failed → disabled: %s err=%v", s.path, err)
		return
	}

	s.written += size
	atomic.AddInt64(&s.metrics.RejectedBytesTotal, size)
}

// Close 는 reject 파일을 닫는다. nil sink 에도 안전하다.
// 닫기 실패는 경고만 남긴다. sink 는 best-effort 다.
func (s *RejectSink) Close() {
	if s == nil || s.f == nil {
		return
	}
	if err := s.f.Close(); err != nil {
		log.Printf("[WARN] reject file close failed: %s err=%v", s.path, err)
	}
}
