// internal/logfile/logfile.go
package logfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	zlog "github.com/rs/zerolog/log"
)

// 로그 파일명 규칙. 날짜 8자리 뒤에 .gz 가 붙을 수도 있다.
//
//	nginx-access-ui.log-20230301
//	nginx-access-ui.log-20230301.gz
var namePattern = regexp.MustCompile(`^nginx-access-ui\.log-(\d{8})(\.gz)?$`)

// ErrNoLogFile 은 처리할 로그가 하나도 없다는 신호다.
// 오류가 아니라 "오늘은 할 일 없음"이며 호출측은 0으로 종료한다.
var ErrNoLogFile = errors.New("no unprocessed log file")

// LogFile 은 선택된 입력 파일 서술자다.
// Date 는 파일명에 박힌 yyyymmdd 이며 리포트 파일명을 만들 때만 쓰인다.
type LogFile struct {
	Path string
	Date time.Time
}

// Find
// ------------------------------------------------------------
// LOG_DIR 에서 파일명 날짜가 가장 최신이면서 아직 처리되지 않은
// 로그 파일을 고른다.
//   - 패턴에 맞지 않는 파일과 디렉토리는 조용히 무시한다.
//   - registry 에 이미 올라간 파일은 skip 한다.
//   - 패턴에 맞는데 날짜가 달력상 불가능하면 (예: 20231341)
//     로그 적재 쪽 사고이므로 선택 전체를 에러로 중단한다.
//
// 파일 시스템은 엔트리 순서를 보장하지 않지만 비교 기준이 날짜라서
// 정렬 없이 한 번 훑는 것으로 충분하다.
func Find(logDir, registryPath string) (LogFile, error) {
	processed, err := readRegistry(registryPath)
	if err != nil {
		return LogFile{}, err
	}

	entries, err := os.ReadDir(logDir)
	if err != nil {
		return LogFile{}, fmt.Errorf("read log dir: %w", err)
	}

	var best LogFile
	found := false

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()

		m := namePattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		if processed[name] {
			zlog.Debug().Str("file", name).Msg("log file already processed")
			continue
		}

		d, err := time.Parse("20060102", m[1])
		if err != nil {
			return LogFile{}, fmt.Errorf("invalid date in log file name %s: %w", name, err)
		}

		if !found || d.After(best.Date) {
			best = LogFile{Path: filepath.Join(logDir, name), Date: d}
			found = true
		}
	}

	if !found {
		return LogFile{}, ErrNoLogFile
	}

	return best, nil
}
