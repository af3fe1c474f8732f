package detector

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"face-attendance/domain/services"
	"face-attendance/pkg/logger"
)

var (
	ErrDetectorFailed = errors.New("face detector process failed")
	ErrDetectorOutput = errors.New("unexpected face detector output")
)

// Output labels printed by the face-crop script, one per line, each followed
// by its value.
const (
	labelOriginalPath       = "Original path:"
	labelProcessedPath      = "Processed path:"
	labelOriginalEmbedding  = "Original embedding:"
	labelProcessedEmbedding = "Processed embedding:"
)

// ScriptDetector runs the external face-crop script as a subprocess and
// parses its labeled stdout lines.
type ScriptDetector struct {
	python  string
	script  string
	timeout time.Duration
}

func NewScriptDetector(python, script string, timeoutSeconds int) services.FaceDetector {
	return &ScriptDetector{
		python:  python,
		script:  script,
		timeout: time.Duration(timeoutSeconds) * time.Second,
	}
}

func (d *ScriptDetector) Detect(ctx context.Context, imagePath string) (*services.DetectionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, d.python, d.script, imagePath)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			logger.FaceError("detector_timeout", "Face detector timed out", err, map[string]interface{}{
				"image":   imagePath,
				"timeout": d.timeout.String(),
			})
			return nil, fmt.Errorf("%w: timed out after %s", ErrDetectorFailed, d.timeout)
		}
		logger.FaceError("detector_failed", "Face detector exited with error", err, map[string]interface{}{
			"image":  imagePath,
			"stderr": stderr.String(),
		})
		return nil, fmt.Errorf("%w: %v", ErrDetectorFailed, err)
	}

	result, err := ParseOutput(stdout.String())
	if err != nil {
		logger.FaceError("detector_parse", "Failed to parse detector output", err, map[string]interface{}{
			"image": imagePath,
		})
		return nil, err
	}

	logger.Face("detector_done", "Face detector finished", map[string]interface{}{
		"image":    imagePath,
		"duration": time.Since(start).String(),
	})
	return result, nil
}

// ParseOutput extracts the four labeled lines from the script's stdout. The
// script may print extra diagnostics; only labeled lines are consumed.
func ParseOutput(output string) (*services.DetectionResult, error) {
	result := &services.DetectionResult{}
	var haveOriginal, haveProcessed bool

	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, labelOriginalPath):
			result.OriginalPath = strings.TrimSpace(strings.TrimPrefix(line, labelOriginalPath))
		case strings.HasPrefix(line, labelProcessedPath):
			result.ProcessedPath = strings.TrimSpace(strings.TrimPrefix(line, labelProcessedPath))
		case strings.HasPrefix(line, labelOriginalEmbedding):
			raw := strings.TrimSpace(strings.TrimPrefix(line, labelOriginalEmbedding))
			if err := json.Unmarshal([]byte(raw), &result.OriginalEmbedding); err != nil {
				return nil, fmt.Errorf("%w: bad original embedding: %v", ErrDetectorOutput, err)
			}
			haveOriginal = true
		case strings.HasPrefix(line, labelProcessedEmbedding):
			raw := strings.TrimSpace(strings.TrimPrefix(line, labelProcessedEmbedding))
			if err := json.Unmarshal([]byte(raw), &result.ProcessedEmbedding); err != nil {
				return nil, fmt.Errorf("%w: bad processed embedding: %v", ErrDetectorOutput, err)
			}
			haveProcessed = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDetectorOutput, err)
	}

	if result.OriginalPath == "" || result.ProcessedPath == "" {
		return nil, fmt.Errorf("%w: missing output paths", ErrDetectorOutput)
	}
	if !haveOriginal || !haveProcessed {
		return nil, fmt.Errorf("%w: missing embeddings", ErrDetectorOutput)
	}

	return result, nil
}
