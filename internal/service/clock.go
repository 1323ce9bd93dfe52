package service

import "time"

// nowFunc is swapped out by tests that need deterministic time.
var nowFunc = time.Now
