package service

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// PDFService extracts text from PDF files page by page using the poppler
// command line tools, the same toolchain the upload pipeline shells out to.
type PDFService struct{}

func NewPDFService() *PDFService {
	return &PDFService{}
}

// ExtractText returns the cleaned text of the whole document, pages joined by
// newlines. Pages that fail to extract are skipped; only a document with no
// extractable text at all is an error for the caller (empty string, nil).
func (s *PDFService) ExtractText(filePath string) (string, error) {
	totalPages, err := getNumPages(filePath)
	if err != nil {
		return "", err
	}

	var pages []string
	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		text, err := extractPageText(filePath, pageNum)
		if err != nil {
			continue
		}
		text = cleanText(text)
		if text == "" {
			continue
		}
		pages = append(pages, text)
	}

	return strings.Join(pages, "\n"), nil
}

// extractPageText extracts a single page with pdftotext.
func extractPageText(filePath string, pageNumber int) (string, error) {
	cmd := exec.Command("pdftotext",
		"-f", strconv.Itoa(pageNumber),
		"-l", strconv.Itoa(pageNumber),
		"-enc", "UTF-8", "-nopgbrk",
		filePath, "-")
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftotext failed for page %d: %w", pageNumber, err)
	}
	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", fmt.Errorf("no text on page %d", pageNumber)
	}
	return text, nil
}

// getNumPages reads the page count from pdfinfo output.
func getNumPages(pdfPath string) (int, error) {
	cmd := exec.Command("pdfinfo", pdfPath)
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("error running pdfinfo: %w", err)
	}

	scanner := bufio.NewScanner(&out)
	re := regexp.MustCompile(`Pages:\s+(\d+)`)
	for scanner.Scan() {
		if matches := re.FindStringSubmatch(scanner.Text()); len(matches) == 2 {
			return strconv.Atoi(matches[1])
		}
	}

	return 0, fmt.Errorf("unable to determine page count from pdfinfo")
}

func cleanText(text string) string {
	replacements := map[string]string{
		"\x00":   "",   // null byte
		"\uFFFD": "",   // replacement character
		"\x1b":   "",   // escape character
		"\r":     "",
		"\f":     "\n",
		"  ":     " ",
	}
	cleaned := text
	for old, new := range replacements {
		cleaned = strings.ReplaceAll(cleaned, old, new)
	}
	return strings.TrimSpace(cleaned)
}
