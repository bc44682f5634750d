package timing

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackzampolin/audiobook-master/internal/perr"
)

const stageName = "mfa"

// ParseTextGrid parses a Praat long-format ("ooTextFile") TextGrid file,
// the format MFA and Gentle both emit: "key = value" lines grouped under
// numbered "item [N]:" and "intervals [N]:" headers. The value-only short
// format is not understood, and the parser is not a general Praat
// parser: anything outside the IntervalTier
// item/intervals shape is ignored rather than rejected, since extra tiers
// (e.g. a "phones" tier) are harmless to skip.
func ParseTextGrid(data []byte) (*TextGrid, error) {
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	g := &TextGrid{}
	var curTier *Tier
	var curInterval *Interval
	sawIntervalTier := false

	flushInterval := func() {
		if curInterval != nil && curTier != nil {
			curTier.Intervals = append(curTier.Intervals, *curInterval)
			curInterval = nil
		}
	}
	flushTier := func() {
		flushInterval()
		if curTier != nil {
			g.Tiers = append(g.Tiers, *curTier)
			curTier = nil
		}
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		key, val, ok := splitKV(line)
		if !ok {
			if strings.HasPrefix(line, "item [") {
				flushTier()
				sawIntervalTier = false
				continue
			}
			if strings.HasPrefix(line, "intervals [") {
				flushInterval()
				curInterval = &Interval{}
				continue
			}
			continue
		}
		switch key {
		case "xmin":
			f, err := parseFloat(val)
			if err != nil {
				return nil, perr.Wrap(perr.KindDataIntegrity, stageName, err)
			}
			if curInterval != nil {
				curInterval.XMin = f
			} else if curTier != nil {
				curTier.XMin = f
			} else {
				g.XMin = f
			}
		case "xmax":
			f, err := parseFloat(val)
			if err != nil {
				return nil, perr.Wrap(perr.KindDataIntegrity, stageName, err)
			}
			if curInterval != nil {
				curInterval.XMax = f
			} else if curTier != nil {
				curTier.XMax = f
			} else {
				g.XMax = f
			}
		case "text":
			if curInterval != nil {
				curInterval.Text = unquote(val)
			}
		case "class":
			if unquote(val) == "IntervalTier" {
				flushTier()
				curTier = &Tier{}
				sawIntervalTier = true
			}
		case "name":
			if curTier != nil {
				curTier.Name = unquote(val)
			}
		}
		_ = sawIntervalTier
	}
	flushTier()

	if err := scanner.Err(); err != nil {
		return nil, perr.Wrap(perr.KindDataIntegrity, stageName, err)
	}
	if len(g.Tiers) == 0 {
		return nil, perr.New(perr.KindDataIntegrity, stageName, "textgrid contains no interval tiers")
	}
	return g, nil
}

func splitKV(line string) (key, val string, ok bool) {
	idx := strings.Index(line, "=")
	if idx < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:idx])
	val = strings.TrimSpace(line[idx+1:])
	if strings.Contains(key, " ") || strings.Contains(key, "[") {
		return "", "", false
	}
	return key, val, true
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parse textgrid float %q: %w", s, err)
	}
	return f, nil
}
