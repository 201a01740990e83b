package recorder

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/sat20-labs/mempool-recorder/common"
	"github.com/sat20-labs/mempool-recorder/mempool"
)

// SnapshotPath is <dataDir>/<YYYY>/<MM>/<DD>/<height>_<unix>_<full|delta>.parquet,
// date in UTC.
func SnapshotPath(dataDir string, now time.Time, height mempool.Height, mode string) string {
	utc := now.UTC()
	return filepath.Join(dataDir,
		utc.Format("2006"), utc.Format("01"), utc.Format("02"),
		fmt.Sprintf("%d_%d_%s.%s", height, utc.Unix(), mode, common.SNAPSHOT_FILE_EXT))
}
