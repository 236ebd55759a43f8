// internal/report/publisher.go
package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"uistat-report/internal/config"
	"uistat-report/internal/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Publisher 는 완성된 리포트를 S3 에 업로드하는 구성 요소다.
// S3_BUCKET 이 설정된 경우에만 만들어진다. 로컬 리포트 파일이
// 항상 원본이고 S3 는 사본이다.
//
// 모든 업로드는 컨텍스트 기반(timeout + cancel-safe)으로
// 이루어지며, 재시도(backoff) 로직을 포함한다.
type Publisher struct {
	cfg     config.Config
	metrics *metrics.Metrics
	client  *s3.Client
}

// NewPublisher 는 AWS SDK Config 를 초기화하고 S3 client 를 생성한다.
// region 은 S3_REGION 이 설정된 경우에만 강제한다.
func NewPublisher(ctx context.Context, cfg config.Config, m *metrics.Metrics) (*Publisher, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.S3Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.S3Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	// SDK 자체 retry 는 끈다. 재시도 횟수는 애플리케이션 레벨
	// (S3_RETRIES)에서만 제어한다.
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.RetryMaxAttempts = 0
	})

	return &Publisher{cfg: cfg, metrics: m, client: client}, nil
}

// PublishFile 은 리포트 파일을 buildKey 가 만드는 키로 업로드한다.
// 실패는 호출자에게 그대로 돌려준다. 업로드가 안 된 날짜는
// registry 에 올라가면 안 되기 때문이다.
func (p *Publisher) PublishFile(ctx context.Context, path string, date time.Time) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open report for upload: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat report: %w", err)
	}

	key := buildKey(p.cfg.S3Prefix, date, filepath.Base(path))
	if err := p.uploadWithRetry(ctx, key, f, info.Size()); err != nil {
		return fmt.Errorf("upload report to s3://%s/%s: %w", p.cfg.S3Bucket, key, err)
	}
	return nil
}

// buildKey 는 표준화된 S3 Key 생성기다.
// S3 폴더 구조 (Partitioning):
//
//	<prefix>/dt=<YYYY-MM-DD>/<filename>
//
// dt= 파티션은 리포트 대상 로그의 날짜다 (업로드 시각 아님).
func buildKey(prefix string, date time.Time, filename string) string {
	return fmt.Sprintf("%s/dt=%s/%s", prefix, date.Format("2006-01-02"), filename)
}

// uploadWithRetry
// ---------------
// 리포트 파일을 S3 로 업로드한다.
//   - io.ReadSeeker 를 사용하여 retry 시 Seek(0) 으로 rewind
//   - 각 시도는 S3_TIMEOUT 의 개별 timeout
//   - retry + exponential backoff 포함 (최대 2초)
//   - ctx 취소 시 즉시 중단
func (p *Publisher) uploadWithRetry(ctx context.Context, key string, f io.ReadSeeker, size int64) error {
	var lastErr error
	backoff := 200 * time.Millisecond

	for attempt := 1; attempt <= p.cfg.S3Retries; attempt++ {

		// 취소 체크
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// 실제 업로드 호출
		if err := p.putObject(ctx, key, f, size); err == nil {
			return nil
		} else {
			lastErr = err
			atomic.AddInt64(&p.metrics.S3PutErrorsTotal, 1)
		}

		// backoff 적용 (최대 2초)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
			backoff *= 2
			if backoff > 2*time.Second {
				backoff = 2 * time.Second
			}
		}

		// retry 전에 파일 포인터를 처음으로 되돌린다 (반드시 필요)
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("rewind report: %w", err)
		}
	}

	return lastErr
}

// putObject
// ---------
// 실제 AWS S3 PutObject 호출 1회를 수행한다.
// retry 는 caller 가 제어한다.
func (p *Publisher) putObject(ctx context.Context, key string, body io.Reader, size int64) error {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.S3Timeout)
	defer cancel()

	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.cfg.S3Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String("text/html; charset=utf-8"),
	})

	return err
}
