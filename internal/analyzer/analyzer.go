// internal/analyzer/analyzer.go
package analyzer

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync/atomic"

	"uistat-report/internal/config"
	"uistat-report/internal/logfile"
	"uistat-report/internal/metrics"
	"uistat-report/internal/parser"
	"uistat-report/internal/report"
	"uistat-report/internal/stats"

	zlog "github.com/rs/zerolog/log"
)

// Analyzer 는 배치 실행 1회 전체를 묶는 상위 구성 요소다.
// 흐름:
//  1. LOG_DIR 에서 가장 최신 미처리 로그 선택
//  2. 스트리밍 파싱 + URL 별 집계
//  3. time_sum 상위 REPORT_SIZE 개로 리포트 생성
//  4. (옵션) S3 업로드
//  5. registry 에 처리 완료 기록
//
// 리포트 생성 이후 단계가 하나라도 실패하면 registry 를 건드리지
// 않는다. 다음 실행이 같은 파일을 다시 처리한다 (at-least-once).
type Analyzer struct {
	cfg       config.Config
	metrics   *metrics.Metrics
	renderer  *report.Renderer
	publisher *report.Publisher // nil 이면 업로드 생략
}

func New(cfg config.Config, m *metrics.Metrics, r *report.Renderer, p *report.Publisher) *Analyzer {
	return &Analyzer{cfg: cfg, metrics: m, renderer: r, publisher: p}
}

// Run 은 배치 1회를 수행한다.
// 처리할 파일이 없으면 logfile.ErrNoLogFile 을 그대로 돌려준다.
// 그 외의 에러는 전부 실행 실패다.
func (a *Analyzer) Run(ctx context.Context) error {
	registryPath := filepath.Join(a.cfg.LogDir, a.cfg.RegistryFile)

	lf, err := logfile.Find(a.cfg.LogDir, registryPath)
	if err != nil {
		return err
	}
	zlog.Info().
		Str("file", lf.Path).
		Str("date", lf.Date.Format("2006-01-02")).
		Msg("processing log file")

	agg, err := a.aggregate(lf)
	if err != nil {
		return err
	}

	rows := stats.TopByTimeSum(agg.Finalize(), a.cfg.ReportSize)
	atomic.StoreInt64(&a.metrics.ReportRowsTotal, int64(len(rows)))

	reportPath, err := a.renderer.Write(rows, lf.Date)
	if err != nil {
		return err
	}
	if err := a.renderer.StageResources(); err != nil {
		return err
	}
	zlog.Info().Str("report", reportPath).Int("rows", len(rows)).Msg("report written")

	if a.publisher != nil {
		if err := a.publisher.PublishFile(ctx, reportPath, lf.Date); err != nil {
			return fmt.Errorf("publish report: %w", err)
		}
		zlog.Info().Msg("report published")
	}

	// 여기까지 왔으면 리포트는 디스크(와 S3)에 있다. 이제부터는
	// 이 파일을 다시 처리하면 안 된다.
	if err := logfile.MarkProcessed(registryPath, lf.Path); err != nil {
		return fmt.Errorf("update registry: %w", err)
	}

	zlog.Info().Fields(a.metrics.Fields()).Msg("log file processed")
	return nil
}

// aggregate 는 로그 파일을 한 줄씩 읽어 URL 통계로 접는다.
// 깨진 라인은 건너뛰고 세기만 한다. 분석 전체를 중단시키는 것은
// 읽기 오류(잘린 gzip 등)뿐이다.
func (a *Analyzer) aggregate(lf logfile.LogFile) (*stats.Aggregator, error) {
	src, err := parser.Open(lf.Path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer src.Close()

	sink, err := NewRejectSink(a.cfg, a.metrics, filepath.Base(lf.Path))
	if err != nil {
		// sink 는 보조 기능이다. 분석은 계속한다.
		log.Printf("[WARN] reject sink unavailable: %v", err)
		sink = nil
	}
	defer sink.Close()

	tok := parser.NewTokenizer()
	agg := stats.NewAggregator()

	for src.Scan() {
		line := src.Line()
		atomic.AddInt64(&a.metrics.LinesTotal, 1)

		rec, err := parser.DecodeRecord(tok.Split(line))
		if err != nil {
			atomic.AddInt64(&a.metrics.MalformedLinesTotal, 1)
			zlog.Debug().Err(err).Str("line", trimForLog(line)).Msg("malformed line skipped")
			sink.Write(line)
			continue
		}
		atomic.AddInt64(&a.metrics.RecordsParsedTotal, 1)

		if !agg.Fold(rec) {
			atomic.AddInt64(&a.metrics.UnattributedRecordsTotal, 1)
			zlog.Debug().Str("request", rec.Request).Msg("record without url skipped")
			sink.Write(line)
		}
	}
	if err := src.Err(); err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}

	zlog.Info().
		Int64("lines", atomic.LoadInt64(&a.metrics.LinesTotal)).
		Int64("parsed", atomic.LoadInt64(&a.metrics.RecordsParsedTotal)).
		Int("urls", agg.URLCount()).
		Msg("aggregation done")

	return agg, nil
}

// trimForLog 는 디버그 로그에 넣을 라인을 적당한 길이로 자른다.
func trimForLog(line string) string {
	const max = 200
	if len(line) <= max {
		return line
	}
	return line[:max] + "..."
}
