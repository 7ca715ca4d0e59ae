package helper

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/c-bata/go-prompt"
	"github.com/sjzsdu/dirpilot/lang"
	"github.com/sjzsdu/dirpilot/share"
)

// editorKeyword 输入该值时改用外部编辑器输入多行内容
const editorKeyword = ":editor"

// CommandExists checks if a command exists in the system PATH
func CommandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

func ShowLoadingAnimation(done chan bool) {
	spinChars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	i := 0
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			fmt.Print("\r\033[K")
			done <- false // 通知调用方动画已清理
			return
		case <-ticker.C:
			fmt.Printf("\r%s %s... ", spinChars[i], lang.T("Thinking"))
			i = (i + 1) % len(spinChars)
		}
	}
}

func ReadFromTerminal(promptText string) (string, error) {
	var result string
	done := make(chan struct{})
	once := &sync.Once{}

	p := prompt.New(
		func(in string) {
			result = in
			once.Do(func() { close(done) })
		},
		func(d prompt.Document) []prompt.Suggest {
			return nil
		},
		prompt.OptionPrefix(""),
		prompt.OptionTitle(share.BUILDNAME),
		prompt.OptionPrefixTextColor(prompt.Blue),
		prompt.OptionInputTextColor(prompt.DefaultColor),
		prompt.OptionAddKeyBind(
			prompt.KeyBind{
				Key: prompt.ControlE,
				Fn: func(b *prompt.Buffer) {
					result = editorKeyword
					once.Do(func() { close(done) })
				},
			},
			prompt.KeyBind{
				Key: prompt.ControlC,
				Fn: func(b *prompt.Buffer) {
					result = "quit"
					once.Do(func() { close(done) })
				},
			},
		),
		prompt.OptionSetExitCheckerOnInput(func(in string, breakline bool) bool {
			return breakline
		}),
	)

	fmt.Print(promptText)

	go p.Run()
	<-done

	return result, nil
}

// ReadFromEditor 打开 $EDITOR（默认 vim）编辑临时文件并返回内容
func ReadFromEditor() (string, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vim"
	}
	if !CommandExists(editor) {
		return "", fmt.Errorf("editor %q not found", editor)
	}

	tmp, err := os.CreateTemp("", share.BUILDNAME+"-input-*.md")
	if err != nil {
		return "", err
	}
	tmp.Close()
	defer os.Remove(tmp.Name())

	cmd := exec.Command(editor, tmp.Name())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("run %s: %w", editor, err)
	}

	content, err := os.ReadFile(tmp.Name())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(content)), nil
}

func InputString(promptText string) (string, error) {
	fmt.Println()
	input, err := ReadFromTerminal(promptText)
	if err != nil {
		return "", fmt.Errorf("error reading input: %w", err)
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("empty input")
	}

	if input == editorKeyword {
		input, err = ReadFromEditor()
		if err != nil {
			return "", fmt.Errorf(lang.T("Error reading from editor")+": %w", err)
		}
		fmt.Printf(">%s\n", input)
	}

	return input, nil
}

func PromptYesNo(prompt string, defaultYes bool) (bool, error) {
	return PromptYesNoFrom(os.Stdin, os.Stdout, prompt, defaultYes)
}

// PromptYesNoFrom 从 r 读取 y/n 回答，空行取默认值
func PromptYesNoFrom(r io.Reader, w io.Writer, prompt string, defaultYes bool) (bool, error) {
	fmt.Fprint(w, prompt)
	scanner := bufio.NewScanner(r)
	scanner.Split(scanAnyLine)
	for {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return defaultYes, err
			}
			return defaultYes, io.EOF
		}
		ans := strings.TrimSpace(scanner.Text())
		if ans == "" {
			return defaultYes, nil
		}
		if yes, ok := ParseYesNo(ans); ok {
			return yes, nil
		}
		fmt.Fprint(w, lang.T("Please enter y or n: "))
	}
}

// ParseYesNo 解析 y/n 回答，ok 为 false 表示既不是肯定也不是否定
func ParseYesNo(s string) (yes bool, ok bool) {
	switch normalizeYN(s) {
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	}
	return false, false
}

// scanAnyLine is like bufio.ScanLines but also treats a lone '\r' as a line ending.
func scanAnyLine(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		if i > 0 && data[i-1] == '\r' {
			return i + 1, data[:i-1], nil
		}
		return i + 1, data[:i], nil
	}
	if i := bytes.IndexByte(data, '\r'); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// normalizeYN normalizes full-width and common Chinese yes/no inputs.
func normalizeYN(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	rs := []rune(s)
	for i, r := range rs {
		if r >= 0xFF01 && r <= 0xFF5E {
			rs[i] = r - 0xFEE0
		}
	}
	s = string(rs)
	switch s {
	case "是", "好", "确定":
		return "yes"
	case "否", "不":
		return "no"
	}
	return s
}
