// internal/report/renderer.go
package report

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"uistat-report/internal/config"
	"uistat-report/internal/model"

	json "github.com/goccy/go-json"
	zlog "github.com/rs/zerolog/log"
)

// 템플릿에서 테이블 JSON 으로 치환되는 자리 표시자.
const tablePlaceholder = "$table_json"

// Renderer
// ------------------------------------------------------------
// 완성된 통계 테이블을 HTML 리포트 파일로 만든다.
//   - 템플릿의 $table_json 자리에 행 배열 JSON 치환
//   - report-YYYY.MM.DD.html 이름으로 REPORT_DIR 에 저장
//   - 템플릿이 참조하는 정적 리소스(js)를 리포트 옆에 복사
//
// 템플릿 내용 자체는 검증하지 않는다. placeholder 가 없으면
// 치환 없이 템플릿이 그대로 리포트가 된다.
type Renderer struct {
	templateFile string
	resourceDir  string
	reportDir    string
}

func NewRenderer(cfg config.Config) *Renderer {
	return &Renderer{
		templateFile: cfg.TemplateFile,
		resourceDir:  cfg.ResourceDir,
		reportDir:    cfg.ReportDir,
	}
}

// ReportName 은 로그 날짜 기준의 리포트 파일명을 돌려준다.
// 날짜는 처리한 로그 파일명의 날짜이지 실행 시각이 아니다.
func ReportName(date time.Time) string {
	return "report-" + date.Format("2006.01.02") + ".html"
}

// Write 는 행 배열을 JSON 으로 인코딩해 템플릿에 심고 리포트 파일을
// 쓴다. 성공하면 최종 경로를 돌려준다.
// 템플릿/출력 디렉토리 문제는 전부 실행 실패로 올린다.
func (r *Renderer) Write(rows []model.ReportRow, date time.Time) (string, error) {
	tpl, err := os.ReadFile(r.templateFile)
	if err != nil {
		return "", fmt.Errorf("read template: %w", err)
	}

	if rows == nil {
		rows = []model.ReportRow{} // null 이 아니라 [] 로 직렬화되어야 한다
	}
	table, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("encode report table: %w", err)
	}

	html := strings.ReplaceAll(string(tpl), tablePlaceholder, string(table))

	if err := os.MkdirAll(r.reportDir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	path := filepath.Join(r.reportDir, ReportName(date))
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	return path, nil
}

// StageResources 는 RESOURCE_DIR 의 파일을 REPORT_DIR 로 복사한다.
// 이미 있는 파일은 건드리지 않는다 (리포트 여러 개가 같은 js 를
// 공유한다). RESOURCE_DIR 이 비어 있으면 아무 것도 하지 않는다.
func (r *Renderer) StageResources() error {
	if r.resourceDir == "" {
		return nil
	}

	entries, err := os.ReadDir(r.resourceDir)
	if err != nil {
		return fmt.Errorf("read resource dir: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		src := filepath.Join(r.resourceDir, e.Name())
		dst := filepath.Join(r.reportDir, e.Name())

		if _, err := os.Stat(dst); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat resource target %s: %w", dst, err)
		}

		if err := copyFile(src, dst); err != nil {
			return fmt.Errorf("copy resource %s: %w", e.Name(), err)
		}
		zlog.Info().Str("file", e.Name()).Msg("staged report resource")
	}

	return nil
}

// copyFile 은 작은 정적 리소스(js) 전용 복사 헬퍼다.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
