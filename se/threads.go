package se

// Threads is the public handle onto the recording driver's bracket
// discipline (spec.md §5, §6), mirroring the original_source benchmarks'
// se::Threads static-class call style as closely as Go idiom allows: a
// package-level value with methods, rather than free functions, so call
// sites read as "Threads.BeginThread()" the way the originals read as
// "Threads::begin_thread()".
var Threads threadsHandle

type threadsHandle struct{}

// Reset discards all recorded state and restarts event/zone id generation,
// ready for a fresh recording. Call once at the start of each scenario.
func (threadsHandle) Reset() { driver.Reset() }

// BeginMainThread starts the main thread's recorder. Must be called exactly
// once per recording, before any other Threads method.
func (threadsHandle) BeginMainThread() { driver.BeginMainThread() }

// BeginThread spawns a new thread, nested at the current thread's present
// position, and makes it current. Must be paired with EndThread.
func (threadsHandle) BeginThread() { driver.BeginThread() }

// EndThread closes the most recently begun spawned thread and restores its
// parent as current.
func (threadsHandle) EndThread() { driver.EndThread() }

// Error records cond as a condition that must not be satisfiable: if the
// encoder finds an assignment making cond true under the guard active when
// Error was called, the scenario has a reachable bug (spec.md §8 scenario
// 1's overflow check).
func (threadsHandle) Error(cond Val[bool]) { driver.Error(cond.instr) }

// EndMainThread closes the recording session. Any unclosed spawned thread
// is a fatal programming error.
func (threadsHandle) EndMainThread() { driver.EndMainThread() }
