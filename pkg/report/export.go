package report

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/NotCoffee418/smartcity_solar/pkg/solarutils"
	"github.com/NotCoffee418/smartcity_solar/pkg/types"
	"github.com/sigurn/crc16"
)

var ErrCorruptReport = errors.New("report checksum mismatch")

const pageBreak = "\f"

// Same CRC as the DSMR telegram trailer
var crcTable = crc16.MakeTable(crc16.CRC16_ARC)

// ExportLatest renders the latest-per-house readings as a paginated text document.
// Every page holds at most linesPerPage house lines. The document ends with
// "!" followed by the CRC16/ARC of everything before it, in hex.
func ExportLatest(readings []types.Reading, linesPerPage int, generatedAt time.Time) ([]byte, error) {
	if linesPerPage < 1 {
		return nil, fmt.Errorf("lines per page must be at least 1, got %d", linesPerPage)
	}

	pages := chunk(readings, linesPerPage)
	var buf bytes.Buffer
	for i, page := range pages {
		if i > 0 {
			buf.WriteString(pageBreak)
		}
		fmt.Fprintf(&buf, "Smart City Solar Report\n")
		fmt.Fprintf(&buf, "Generated: %s\n", types.FormatTimestamp(generatedAt))
		fmt.Fprintf(&buf, "Page %d/%d\n\n", i+1, len(pages))

		if len(page) == 0 {
			buf.WriteString("No readings available\n")
		}
		for _, r := range page {
			fmt.Fprintf(&buf, "House %d | Consumption: %s | Generation: %s | Surplus: %s\n",
				r.HouseID,
				solarutils.FormatKWh(r.ConsumptionKWh),
				solarutils.FormatKWh(r.GenerationKWh),
				solarutils.FormatKWh(r.SurplusKWh))
		}
	}

	buf.WriteString("!")
	checksum := crc16.Checksum(buf.Bytes(), crcTable)
	fmt.Fprintf(&buf, "%04X\n", checksum)
	return buf.Bytes(), nil
}

// VerifyReport checks the trailing checksum of an exported document.
func VerifyReport(data []byte) error {
	idx := bytes.LastIndexByte(data, '!')
	if idx < 0 {
		return fmt.Errorf("%w: no trailer", ErrCorruptReport)
	}

	given := strings.TrimSpace(string(data[idx+1:]))
	if len(given) != 4 {
		return fmt.Errorf("%w: malformed trailer %q", ErrCorruptReport, given)
	}

	calc := fmt.Sprintf("%04X", crc16.Checksum(data[:idx+1], crcTable))
	if strings.ToUpper(given) != calc {
		return fmt.Errorf("%w: got %s, expected %s", ErrCorruptReport, given, calc)
	}
	return nil
}

// PageCount counts the pages of an exported document.
func PageCount(data []byte) int {
	return bytes.Count(data, []byte(pageBreak)) + 1
}

// WriteReportFile exports the readings into dir and returns the file path.
// The written file is read back and its checksum verified.
func WriteReportFile(dir string, readings []types.Reading, linesPerPage int, generatedAt time.Time) (string, error) {
	data, err := ExportLatest(readings, linesPerPage, generatedAt)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, "solar-report-"+generatedAt.Format("20060102-150405")+".txt")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	written, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read back report %s: %w", path, err)
	}
	if err := VerifyReport(written); err != nil {
		return "", err
	}
	return path, nil
}

func chunk(readings []types.Reading, size int) [][]types.Reading {
	if len(readings) == 0 {
		return [][]types.Reading{nil}
	}
	var pages [][]types.Reading
	for start := 0; start < len(readings); start += size {
		end := min(start+size, len(readings))
		pages = append(pages, readings[start:end])
	}
	return pages
}
