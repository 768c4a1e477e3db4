package generator

import "context"

type TaskKind int

const (
	TaskRaster TaskKind = iota
	TaskFavicon
	TaskTrace
)

func (k TaskKind) String() string {
	switch k {
	case TaskFavicon:
		return "favicon"
	case TaskTrace:
		return "trace"
	default:
		return "raster"
	}
}

type task struct {
	Kind        TaskKind
	Path        string
	Optimizable bool
	run         func(ctx context.Context) (int64, error)
}

type Result struct {
	Path      string
	Kind      TaskKind
	Bytes     int64
	Saved     int64
	Optimized bool
	Err       error
}

type Summary struct {
	Total        int
	Written      int
	Failed       int
	Optimized    int
	BytesWritten int64
	BytesSaved   int64
	Warnings     []string
	Results      []Result
	Head         string
}

// ProgressUpdate carries counter deltas. Path is set for updates that
// report a finished task.
type ProgressUpdate struct {
	Path           string
	TotalDelta     int
	WrittenDelta   int
	FailedDelta    int
	OptimizedDelta int
	BytesDelta     int64
}
