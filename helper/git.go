package helper

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/go-git/go-git/v5"
)

var gitURLPattern = regexp.MustCompile(`^(https?://|git@|ssh://)`)

// IsGitURL 判断输入是否为远程仓库地址
func IsGitURL(source string) bool {
	return gitURLPattern.MatchString(source)
}

// CloneProject 浅克隆仓库到临时目录，返回克隆路径和清理函数
// progress 为 nil 时不输出克隆进度
func CloneProject(ctx context.Context, gitURL string, progress io.Writer) (string, func(), error) {
	tempDir, err := os.MkdirTemp("", "dirpilot-repo-")
	if err != nil {
		return "", nil, fmt.Errorf("创建临时目录失败: %w", err)
	}
	cleanup := func() { os.RemoveAll(tempDir) }

	_, err = git.PlainCloneContext(ctx, tempDir, false, &git.CloneOptions{
		URL:               gitURL,
		Depth:             1,
		SingleBranch:      true,
		RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
		Progress:          progress,
	})
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("克隆仓库失败: %w", err)
	}
	return tempDir, cleanup, nil
}
