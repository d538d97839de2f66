/*
Package operation implements the filter-and-transfer pipeline.

	+-------------+     +-------------+     +-------------+
	|    Scan     | --> |   Filter    | --> |   Select    |
	| (list dir)  |     | (predicates)|     |  (prefix)   |
	+-------------+     +-------------+     +------+------+
	                                               |
	                    +-------------+     +------+------+
	                    |  Reporter   | <-- |  Executor   |
	                    | (caller)    |     |  (worker)   |
	                    +-------------+     +-------------+

🎯 Purpose:
- Resolve the source and destination of a Request
- Enumerate, filter and select the files to transfer
- Copy (or move) each selected file, one at a time, on a pool worker
- Stream ordered events back to whoever submitted the request

🔄 Flow:
1. Runner.Submit validates the request and resolves both directories
2. A pool worker plans the selection and runs the Executor over it
3. Each file gets a Progress event before its attempt
4. A single Completed event carries the status.Outcome
5. The event channel closes

⚡ Failure isolation:
A file that cannot be read, created, written or (for moves) deleted is
recorded as a failure in the outcome and the next file is attempted. Only an
unresolvable directory fails the request as a whole, and it does so from
Submit before a worker is scheduled.

🤝 Interfaces:
- storage.Storage: everything touching the file system
- Reporter: receives Progress and the final Outcome on the caller's goroutine

🔍 Example:

	exec, _ := operation.NewExecutor(operation.Options{Storage: storage.NewOsFS(storage.FSOptions{})})
	runner, _ := operation.NewRunner(exec, operation.RunnerOptions{})
	defer runner.Close()

	outcome, err := runner.Run(ctx, operation.Request{
		Source:      "/sdcard/DCIM",
		Destination: "/mnt/usb",
		Mode:        operation.ModeMove,
		Filter:      filter.NewSpec(),
	}, reporter)

🚧 Known limitation:
When a move copies a file but cannot delete the source, both copies remain and
the file counts as a failure. No rollback is attempted.
*/
package operation
