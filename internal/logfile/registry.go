// internal/logfile/registry.go
package logfile

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// registry 파일은 처리 완료된 로그의 basename 을 한 줄에 하나씩
// 보관한다. append 전용이며 절대 다시 쓰거나 자르지 않는다.

// readRegistry 는 registry 를 basename 집합으로 읽는다.
// 파일이 아직 없으면 (첫 실행) 빈 집합이다.
// 예전 포맷이 남긴 선행 개행이나 빈 줄은 걸러낸다.
func readRegistry(path string) (map[string]bool, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]bool{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	defer f.Close()

	processed := make(map[string]bool)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		name := strings.TrimSpace(sc.Text())
		if name != "" {
			processed[name] = true
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}

	return processed, nil
}

// MarkProcessed 는 로그 파일의 basename 을 registry 에 append 한다.
// 리포트가 완전히 쓰인 뒤에만 호출해야 한다. 그 전에 프로세스가
// 죽으면 registry 에 기록이 없으므로 다음 실행이 같은 파일을
// 다시 집는다 (at-least-once).
func MarkProcessed(registryPath, logPath string) error {
	f, err := os.OpenFile(registryPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open registry for append: %w", err)
	}

	_, werr := f.WriteString(filepath.Base(logPath) + "\n")
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("append registry: %w", werr)
	}
	if cerr != nil {
		return fmt.Errorf("close registry: %w", cerr)
	}

	return nil
}
