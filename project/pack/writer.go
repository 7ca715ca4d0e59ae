package pack

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/sjzsdu/dirpilot/helper"
)

// Render 用格式化器把摘要渲染为文本
func Render(d *DigestResult, f Formatter) string {
	var builder strings.Builder
	builder.WriteString(f.Header(d))
	for _, file := range d.Files {
		builder.WriteString(f.Format(file))
	}
	builder.WriteString(f.Footer())
	return builder.String()
}

// WriteDigest 根据输出文件扩展名写出摘要：.md 为 Markdown，.pdf 为 PDF，其余为纯文本
// 返回实际写入的路径
func WriteDigest(d *DigestResult, outputPath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(outputPath))
	if ext == ".pdf" {
		return outputPath, writePDF(d, outputPath)
	}

	f := GetFormatter(ext)
	if ext == "" {
		outputPath += f.FileExtension()
	}
	if err := helper.WriteFileAtomic(outputPath, []byte(Render(d, f))); err != nil {
		return "", fmt.Errorf("写入摘要失败: %w", err)
	}
	return outputPath, nil
}

// writePDF 使用等宽字体输出纯文本格式的摘要
func writePDF(d *DigestResult, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(d.Title(), true)
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.MultiCell(0, 7, tr(d.Title()), "", "L", false)
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, tr(d.Summary), "", "L", false)
	pdf.Ln(3)

	pdf.SetFont("Courier", "", 8)
	pdf.MultiCell(0, 3.5, tr(Render(d, &TextFormatter{})), "", "L", false)

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("写入PDF失败: %w", err)
	}
	return nil
}
