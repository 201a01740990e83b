package recorder

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sat20-labs/mempool-recorder/catalog"
	"github.com/sat20-labs/mempool-recorder/common"
	"github.com/sat20-labs/mempool-recorder/mempool"
	"github.com/sat20-labs/mempool-recorder/share/bitcoin_rpc"
)

type SnapshotWriter interface {
	// Write must not leave a partial file at path on failure.
	Write(table *mempool.DeltaTable, path string, meta map[string]string) error
}

type TickCatalog interface {
	Put(rec *catalog.TickRecord) error
}

type TickResult struct {
	Height       mempool.Height
	Mode         string
	Path         string
	Table        *mempool.DeltaTable
	MempoolSize  int
	LoadDuration time.Duration
}

// Recorder samples the mempool once per scheduler boundary and writes the
// difference to the previous sample. All state is owned by the goroutine
// running Run.
type Recorder struct {
	dataDir   string
	node      bitcoin_rpc.NodeClient
	writer    SnapshotWriter
	catalog   TickCatalog // optional
	scheduler *Scheduler

	hasHeight    bool
	prevHeight   mempool.Height
	prevSnapshot mempool.Snapshot
	prevTick     time.Time // zero value never equals a real tick second

	log *logrus.Entry
}

func NewRecorder(dataDir string, node bitcoin_rpc.NodeClient, writer SnapshotWriter,
	tickCatalog TickCatalog, scheduler *Scheduler) *Recorder {
	return &Recorder{
		dataDir:      dataDir,
		node:         node,
		writer:       writer,
		catalog:      tickCatalog,
		scheduler:    scheduler,
		prevSnapshot: mempool.NewSnapshot(),
		log:          common.GetLoggerEntry("recorder"),
	}
}

// Run loops until stopChan fires or a tick fails. A failed tick is returned
// as is, nothing is retried here.
func (r *Recorder) Run(stopChan chan bool) error {
	r.log.Infof("recording mempool of %s to %s every %ds",
		r.node.Endpoint(), r.dataDir, r.scheduler.interval)

	for {
		now, ok := r.scheduler.Wait(stopChan, r.prevTick)
		if !ok {
			r.log.Info("recorder got stop signal")
			return nil
		}

		if _, err := r.ProcessTick(now); err != nil {
			r.log.Errorf("tick %d failed: %v", now.Unix(), err)
			return err
		}
	}
}

// ProcessTick runs one sample-diff-write cycle for the boundary at now. State
// is only rotated when the file was written.
func (r *Recorder) ProcessTick(now time.Time) (*TickResult, error) {
	height, err := r.node.GetChainHeight()
	if err != nil {
		return nil, errors.Wrap(err, "get chain height")
	}

	prev := r.prevSnapshot
	mode := common.MODE_DELTA
	if !r.hasHeight || height != r.prevHeight {
		// 新区块，前一个快照中消失的tx多数已被确认，重新输出全量
		prev = mempool.NewSnapshot()
		mode = common.MODE_FULL
		r.log.Infof("new_height: %d", height)
	}

	start := time.Now()
	curr, err := r.node.GetMempool()
	if err != nil {
		return nil, errors.Wrap(err, "get mempool")
	}
	loadDuration := time.Since(start)

	table := mempool.CreateDelta(prev, curr)

	path := SnapshotPath(r.dataDir, now, height, mode)
	meta := map[string]string{
		"height":              strconv.FormatUint(height, 10),
		"timestamp":           strconv.FormatInt(now.Unix(), 10),
		"mode":                mode,
		"mempool_size":        strconv.Itoa(len(curr)),
		"load_mempool_millis": strconv.FormatInt(loadDuration.Milliseconds(), 10),
	}
	if err := r.writer.Write(table, path, meta); err != nil {
		return nil, errors.Wrap(err, "write snapshot")
	}

	r.log.Infof("height: %d, mode: %s, removed: %d, added: %d, mempool_size: %d, load_mempool_duration_millis: %d, file: %s",
		height, mode, table.Removed, table.Added, len(curr), loadDuration.Milliseconds(), path)

	if r.catalog != nil {
		err := r.catalog.Put(&catalog.TickRecord{
			Height:      height,
			Timestamp:   now.Unix(),
			Mode:        mode,
			Path:        path,
			Removed:     table.Removed,
			Added:       table.Added,
			MempoolSize: len(curr),
			LoadMillis:  loadDuration.Milliseconds(),
		})
		if err != nil {
			if !common.IsStorageError(err) {
				err = common.NewStorageError(path, "catalog", err)
			}
			return nil, errors.Wrap(err, "record tick")
		}
	}

	r.hasHeight = true
	r.prevHeight = height
	r.prevSnapshot = curr
	r.prevTick = now

	return &TickResult{
		Height:       height,
		Mode:         mode,
		Path:         path,
		Table:        table,
		MempoolSize:  len(curr),
		LoadDuration: loadDuration,
	}, nil
}
