package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"uistat-report/internal/analyzer"
	"uistat-report/internal/config"
	"uistat-report/internal/logfile"
	"uistat-report/internal/logger"
	"uistat-report/internal/metrics"
	"uistat-report/internal/report"

	zlog "github.com/rs/zerolog/log"
)

func main() {

	// ====================================================================
	// Config 로드
	// ====================================================================
	//
	// cron 이 넘기는 것은 config 파일 경로 하나뿐이다.
	//   uistat-report --config /etc/uistat/report.conf
	//
	// config 가 깨져 있으면 아무 것도 하지 않고 비정상 종료한다.
	// 이 시점에는 logger 가 아직 없으므로 stderr 에 바로 쓴다.
	// ====================================================================
	configPath := flag.String("config", config.DefaultPath, "config file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// ====================================================================
	// Logger 초기화
	// ====================================================================
	//
	// 이후의 모든 출력은 zerolog 를 통해 나간다.
	// 대용량 파일에서 깨진 라인이 수백만 개 나올 수 있으므로
	// 라인 단위 skip 로그는 debug 레벨 + 샘플링으로만 찍는다.
	// ====================================================================
	logger.Init(cfg)

	// ====================================================================
	// 종료 신호 (cron 강제 회수 대응)
	// ====================================================================
	//
	// SIGINT/SIGTERM 은 컨텍스트 취소로 전달된다. 파일 파싱은 그대로
	// 끝까지 가고, S3 업로드(네트워크 대기)만 즉시 중단된다.
	// 두 번째 신호는 프로세스를 그냥 죽인다 (NotifyContext 기본 동작).
	// ====================================================================
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ====================================================================
	// 구성 요소 조립
	// ====================================================================
	//
	// - Metrics : 실행 1회의 내부 카운터. 종료 시 한 줄로 찍힌다
	// - Renderer: 템플릿 치환 + 리포트/리소스 파일 쓰기
	// - Publisher: S3_BUCKET 이 설정된 경우에만 만든다.
	//   리포트는 항상 로컬에 먼저 남고 S3 는 사본이다.
	// ====================================================================
	m := metrics.New()
	renderer := report.NewRenderer(cfg)

	var publisher *report.Publisher
	if cfg.S3Bucket != "" {
		publisher, err = report.NewPublisher(ctx, cfg, m)
		if err != nil {
			zlog.Fatal().Err(err).Msg("s3 publisher init failed")
		}
	}

	// ====================================================================
	// 배치 실행
	// ====================================================================
	//
	// 종료 코드:
	//   0 : 리포트 생성 완료, 또는 처리할 파일 없음
	//   1 : 그 외 전부 (config, 파일명 날짜, 읽기 오류, 업로드, registry)
	//
	// cron 쪽에서는 종료 코드 1 만 알람으로 건다.
	// ====================================================================
	err = analyzer.New(cfg, m, renderer, publisher).Run(ctx)
	switch {
	case errors.Is(err, logfile.ErrNoLogFile):
		zlog.Info().Msg("no unprocessed log file, nothing to do")
	case err != nil:
		zlog.Fatal().Err(err).Msg("run failed")
	default:
		zlog.Info().Msg("run complete")
	}
}
