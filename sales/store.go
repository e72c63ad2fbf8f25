package sales

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/barista/errors"
	"github.com/teranos/barista/logger"
)

// CSV column names. The header row must contain both.
const (
	ColumnDayIndex = "Day_Index"
	ColumnCupsSold = "Cups_Sold"
)

// DefaultFilePermissions is applied to the sales file after every rewrite
const DefaultFilePermissions = 0644

// Store is durable storage for the full observation sequence
type Store interface {
	// Exists reports whether a durable copy is present
	Exists() (bool, error)
	// Load reads every observation in stored order
	Load() ([]Observation, error)
	// Save replaces the durable copy with observations
	Save(observations []Observation) error
}

// CSVStore keeps observations in a two-column CSV file.
// Save rewrites the whole file through a temp file and rename, so readers
// never see a half-written history.
type CSVStore struct {
	path   string
	logger *zap.SugaredLogger
}

// NewCSVStore returns a store backed by the file at path.
// The file is not touched until Load or Save is called.
func NewCSVStore(path string, log *zap.SugaredLogger) *CSVStore {
	if log == nil {
		log = logger.Logger
	}
	return &CSVStore{path: path, logger: log}
}

// Path returns the backing file path
func (s *CSVStore) Path() string {
	return s.path
}

// Exists reports whether the backing file is present
func (s *CSVStore) Exists() (bool, error) {
	info, err := os.Stat(s.path)
	if err == nil {
		if info.IsDir() {
			return false, errors.WithHint(
				errors.NewStorageError("sales path %s is a directory", s.path),
				"point sales.file at a CSV file")
		}
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.WrapStorage(err, "failed to stat sales file")
}

// Load reads and parses the backing file
func (s *CSVStore) Load() ([]Observation, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.WrapStorage(err, "failed to open sales file")
	}
	defer f.Close()

	observations, err := Decode(f)
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "failed to read %s", s.path),
			"remove or repair the sales file; it will be reseeded when missing")
	}

	s.logger.Debugw("Loaded sales file",
		logger.FieldPath, s.path,
		logger.FieldCount, len(observations))
	return observations, nil
}

// Save rewrites the backing file with observations
func (s *CSVStore) Save(observations []Observation) error {
	var buf bytes.Buffer
	if err := Encode(&buf, observations); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.WrapStorage(err, "failed to create sales directory")
	}

	tmp, err := os.CreateTemp(dir, ".sales-*.csv.tmp")
	if err != nil {
		return errors.WrapStorage(err, "failed to create temp sales file")
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		cleanup()
		return errors.WrapStorage(err, "failed to write sales file")
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return errors.WrapStorage(err, "failed to sync sales file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.WrapStorage(err, "failed to close sales file")
	}
	if err := os.Chmod(tmpName, DefaultFilePermissions); err != nil {
		os.Remove(tmpName)
		return errors.WrapStorage(err, "failed to set sales file permissions")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.WrapStorage(err, "failed to replace sales file")
	}

	s.logger.Debugw("Wrote sales file",
		logger.FieldPath, s.path,
		logger.FieldCount, len(observations))
	return nil
}

// Encode writes the header row and one row per observation
func Encode(w io.Writer, observations []Observation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ColumnDayIndex, ColumnCupsSold}); err != nil {
		return errors.WrapStorage(err, "failed to write CSV header")
	}
	for _, o := range observations {
		row := []string{strconv.Itoa(o.DayIndex), strconv.Itoa(o.CupsSold)}
		if err := cw.Write(row); err != nil {
			return errors.WrapStorage(err, "failed to write CSV row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.WrapStorage(err, "failed to flush CSV")
	}
	return nil
}

// Decode parses a sales CSV. Columns are located by header name, extra columns
// are ignored. Any malformed row makes the whole file corrupt: a partial history
// would silently change the forecast.
func Decode(r io.Reader) ([]Observation, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.NewStorageError("sales file is empty")
	}
	if err != nil {
		return nil, errors.WrapStorage(err, "failed to read CSV header")
	}

	dayCol, cupsCol := -1, -1
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch name {
		case ColumnDayIndex:
			dayCol = i
		case ColumnCupsSold:
			cupsCol = i
		}
	}
	if dayCol < 0 || cupsCol < 0 {
		return nil, errors.NewStorageError("sales header must contain %s and %s, got %q",
			ColumnDayIndex, ColumnCupsSold, strings.Join(header, ","))
	}

	var observations []Observation
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WrapStorage(err, "failed to read CSV row")
		}
		line, _ := cr.FieldPos(0)

		day, err := parseCell(row[dayCol], ColumnDayIndex, line)
		if err != nil {
			return nil, err
		}
		cups, err := parseCell(row[cupsCol], ColumnCupsSold, line)
		if err != nil {
			return nil, err
		}

		o := Observation{DayIndex: day, CupsSold: cups}
		if err := o.Validate(); err != nil {
			return nil, errors.NewStorageError("line %d: %s", line, err.Error())
		}
		observations = append(observations, o)
	}

	if len(observations) == 0 {
		return nil, errors.NewStorageError("sales file has a header but no observations")
	}
	return observations, nil
}

func parseCell(value, column string, line int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, errors.NewStorageError("line %d: %s %q is not an integer", line, column, value)
	}
	return n, nil
}
