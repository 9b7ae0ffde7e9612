package metric

// ObserveStoreWrite counts one full rewrite of the store.
func ObserveStoreWrite(backend string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	StoreWritesTotal.WithLabelValues(backend, result).Inc()
}

// AddSkippedLines records lines dropped by a load.
func AddSkippedLines(n int) {
	if n > 0 {
		LoadSkippedLines.Add(float64(n))
	}
}
