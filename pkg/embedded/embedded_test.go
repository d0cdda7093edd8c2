package embedded

import (
	"strings"
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"data/masks.yaml":        {Data: []byte("bash: {}\n")},
		"data/levels/fun-1.yaml": {Data: []byte("id: fun-1\n")},
		"data/levels/fun-2.yaml": {Data: []byte("id: fun-2\n")},
	}
}

// reset 恢复未初始化状态，避免影响其他测试
func reset() {
	dataFS = nil
	initialized = false
}

// TestIsInitialized 测试初始化状态检测
func TestIsInitialized(t *testing.T) {
	reset()
	defer reset()

	if IsInitialized() {
		t.Error("Expected IsInitialized() to return false before Init()")
	}

	Init(testFS())

	if !IsInitialized() {
		t.Error("Expected IsInitialized() to return true after Init()")
	}
	if FS() == nil {
		t.Error("Expected FS() to return the initialized file system")
	}
}

// TestNotInitialized 测试未初始化时调用各访问函数
func TestNotInitialized(t *testing.T) {
	reset()

	const want = "embedded package not initialized, call Init() first"
	if _, err := Open("data/masks.yaml"); err == nil || err.Error() != want {
		t.Errorf("Open(): unexpected error %v", err)
	}
	if _, err := ReadFile("data/masks.yaml"); err == nil || err.Error() != want {
		t.Errorf("ReadFile(): unexpected error %v", err)
	}
	if _, err := Glob("data/levels/*.yaml"); err == nil {
		t.Error("Expected error when calling Glob() before Init()")
	}
	if _, err := ReadDir("data/levels"); err == nil {
		t.Error("Expected error when calling ReadDir() before Init()")
	}
	// Exists 在未初始化时应返回 false（因为内部调用 Open 会出错）
	if Exists("data/masks.yaml") {
		t.Error("Expected Exists() to return false before Init()")
	}
}

func TestReadFile(t *testing.T) {
	reset()
	defer reset()
	Init(testFS())

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr string
	}{
		{name: "plain path", path: "data/masks.yaml", want: "bash: {}\n"},
		{name: "dot prefix", path: "./data/levels/fun-1.yaml", want: "id: fun-1\n"},
		{name: "backslash separators", path: `data\levels\fun-2.yaml`, want: "id: fun-2\n"},
		{name: "wrong prefix", path: "assets/fun.png", wantErr: "unknown resource path prefix"},
		{name: "missing file", path: "data/nope.yaml", wantErr: "nope.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ReadFile(tt.path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadFile(%q) failed: %v", tt.path, err)
			}
			if string(data) != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, string(data))
			}
		})
	}
}

func TestGlobAndReadDir(t *testing.T) {
	reset()
	defer reset()
	Init(testFS())

	matches, err := Glob("data/levels/*.yaml")
	if err != nil {
		t.Fatalf("Glob() failed: %v", err)
	}
	if len(matches) != 2 || matches[0] != "data/levels/fun-1.yaml" {
		t.Errorf("Unexpected matches %v", matches)
	}

	entries, err := ReadDir("data")
	if err != nil {
		t.Fatalf("ReadDir() failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected 2 entries under data/, got %d", len(entries))
	}

	sub, err := Sub("data/levels")
	if err != nil {
		t.Fatalf("Sub() failed: %v", err)
	}
	if _, err := sub.Open("fun-1.yaml"); err != nil {
		t.Errorf("Sub().Open() failed: %v", err)
	}

	if !Exists("data/masks.yaml") || Exists("data/levels/fun-3.yaml") {
		t.Error("Exists() returned unexpected result")
	}
}
