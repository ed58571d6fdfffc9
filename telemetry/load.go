package telemetry

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ulikunitz/xz"
	"go-ml.dev/pkg/zorros"
)

// rowWidth is unit + cycle + settings + sensors
const rowWidth = 2 + SettingCount + SensorCount

/*
LoadRecords reads a whitespace-delimited headerless telemetry file:
unit cycle setting_1..3 sensor_1..21 per row. Files ending in .xz are
decompressed transparently.
*/
func LoadRecords(path string) ([]Record, error) {
	rd, closer, err := openMaybeXz(path)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	var records []Record
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < rowWidth {
			return nil, zorros.Errorf("%v:%d: %d columns, want %d", path, line, len(fields), rowWidth)
		}
		var r Record
		if r.Unit, err = strconv.Atoi(fields[0]); err != nil {
			return nil, zorros.Wrapf(err, "%v:%d: bad unit id: %v", path, line, err.Error())
		}
		if r.Cycle, err = strconv.Atoi(fields[1]); err != nil {
			return nil, zorros.Wrapf(err, "%v:%d: bad cycle: %v", path, line, err.Error())
		}
		if r.Cycle < 1 {
			return nil, zorros.Errorf("%v:%d: cycle %d < 1", path, line, r.Cycle)
		}
		for i := 0; i < SettingCount; i++ {
			if r.Settings[i], err = strconv.ParseFloat(fields[2+i], 64); err != nil {
				return nil, zorros.Wrapf(err, "%v:%d: bad setting_%d: %v", path, line, i+1, err.Error())
			}
		}
		for i := 0; i < SensorCount; i++ {
			if r.Sensors[i], err = strconv.ParseFloat(fields[2+SettingCount+i], 64); err != nil {
				return nil, zorros.Wrapf(err, "%v:%d: bad sensor_%d: %v", path, line, i+1, err.Error())
			}
		}
		records = append(records, r)
	}
	if err := sc.Err(); err != nil {
		return nil, zorros.Trace(err)
	}
	if len(records) == 0 {
		return nil, zorros.Errorf("%v: no telemetry rows", path)
	}
	return records, nil
}

/*
LoadRUL reads a ground-truth file with one integer RUL per line,
value k belonging to unit id k+1.
*/
func LoadRUL(path string) ([]int, error) {
	rd, closer, err := openMaybeXz(path)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	var ruls []int
	sc := bufio.NewScanner(rd)
	line := 0
	for sc.Scan() {
		line++
		t := strings.TrimSpace(sc.Text())
		if t == "" {
			continue
		}
		v, err := strconv.Atoi(t)
		if err != nil {
			return nil, zorros.Wrapf(err, "%v:%d: bad RUL value: %v", path, line, err.Error())
		}
		ruls = append(ruls, v)
	}
	if err := sc.Err(); err != nil {
		return nil, zorros.Trace(err)
	}
	if len(ruls) == 0 {
		return nil, zorros.Errorf("%v: no RUL values", path)
	}
	return ruls, nil
}

// ResolvePath returns path if it exists, otherwise path+".xz" if that exists.
func ResolvePath(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if _, err := os.Stat(path + ".xz"); err == nil {
		return path + ".xz", nil
	}
	return "", zorros.Errorf("no such file: %v (nor %v.xz)", path, path)
}

func openMaybeXz(path string) (io.Reader, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, zorros.Trace(err)
	}
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(bufio.NewReader(f))
		if err != nil {
			_ = f.Close()
			return nil, nil, zorros.Wrapf(err, "%v: xz: %v", path, err.Error())
		}
		return xr, f, nil
	}
	return f, f, nil
}
