// Package journal 把模拟事件写成 zstd 压缩的 JSONL 文件
//
// 每次运行一个文件：第一行是 Header，之后每行一个 systems.Event。
// 文件可以用 zstdcat 直接查看，也可以用 Read 重新读入做回放比对。
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/decker502/lemmings/pkg/systems"
)

// FileExt 日志文件扩展名
const FileExt = ".jsonl.zst"

// Header 日志首行，记录复现一次运行所需的信息
type Header struct {
	Kind    string `json:"kind"` // 固定为 "header"
	RunID   string `json:"run"`
	LevelID string `json:"level"`
	Seed    int64  `json:"seed,omitempty"`
	Started string `json:"started"` // RFC3339
}

// JSONLZstdWriter 线程安全的压缩 JSONL 写入器
type JSONLZstdWriter struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// NewJSONLZstdWriter 创建（或截断）文件并返回写入器
func NewJSONLZstdWriter(path string) (*JSONLZstdWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create journal file %s: %w", path, err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	return &JSONLZstdWriter{
		f:   f,
		enc: enc,
		w:   bufio.NewWriterSize(enc, 128*1024),
	}, nil
}

// Write 写入一行 JSON
func (w *JSONLZstdWriter) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.w == nil {
		return fmt.Errorf("journal writer is closed")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Close 刷新缓冲并关闭文件，可重复调用
func (w *JSONLZstdWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var err1 error
	if w.w != nil {
		err1 = w.w.Flush()
		w.w = nil
	}
	if w.enc != nil {
		if err := w.enc.Close(); err1 == nil {
			err1 = err
		}
		w.enc = nil
	}
	if w.f != nil {
		if err := w.f.Close(); err1 == nil {
			err1 = err
		}
		w.f = nil
	}
	return err1
}

// Journal 一次运行的事件日志
//
// Record 作为 systems.EventListener 订阅 LemmingManager；
// 监听器无法返回错误，第一个写入错误保存下来由 Close 返回。
type Journal struct {
	path string
	w    *JSONLZstdWriter

	mu     sync.Mutex
	err    error
	events int
}

// Create 在 dir 下创建 <levelID>-<runID>.jsonl.zst 并写入 Header
func Create(dir string, header Header) (*Journal, error) {
	path := filepath.Join(dir, fmt.Sprintf("%s-%s%s", header.LevelID, header.RunID, FileExt))
	w, err := NewJSONLZstdWriter(path)
	if err != nil {
		return nil, err
	}
	header.Kind = "header"
	if err := w.Write(header); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to write journal header: %w", err)
	}
	return &Journal{path: path, w: w}, nil
}

// Path 返回日志文件路径
func (j *Journal) Path() string { return j.path }

// Events 返回已记录的事件数
func (j *Journal) Events() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.events
}

// Record 记录一个事件
func (j *Journal) Record(ev systems.Event) {
	err := j.w.Write(ev)

	j.mu.Lock()
	defer j.mu.Unlock()
	if err != nil {
		if j.err == nil {
			j.err = fmt.Errorf("failed to write journal event at tick %d: %w", ev.Tick, err)
		}
		return
	}
	j.events++
}

// Close 关闭日志并返回第一个写入错误
func (j *Journal) Close() error {
	closeErr := j.w.Close()

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return j.err
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close journal %s: %w", j.path, closeErr)
	}
	return nil
}

// Read 读取日志文件，返回 Header 和全部事件
func Read(path string) (Header, []systems.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, nil, fmt.Errorf("failed to open journal %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode 从压缩流解析日志
func Decode(r io.Reader) (Header, []systems.Event, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return Header{}, nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer dec.Close()

	var header Header
	var events []systems.Event
	scanner := bufio.NewScanner(dec)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if line == 1 {
			if err := json.Unmarshal(scanner.Bytes(), &header); err != nil {
				return Header{}, nil, fmt.Errorf("failed to parse journal header: %w", err)
			}
			if header.Kind != "header" {
				return Header{}, nil, fmt.Errorf("journal does not start with a header line")
			}
			continue
		}
		var ev systems.Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			return Header{}, nil, fmt.Errorf("failed to parse journal line %d: %w", line, err)
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return Header{}, nil, fmt.Errorf("failed to read journal: %w", err)
	}
	if line == 0 {
		return Header{}, nil, fmt.Errorf("journal is empty")
	}
	return header, events, nil
}
