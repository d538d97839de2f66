/*
Package status accounts for the outcome of a transfer and formats it for people.

	+-------------+
	|  Executor   |
	|  (worker)   |
	+------+------+
	       | Record(FileResult)
	+------+------+
	|   Outcome   |
	| (tally)     |
	+------+------+
	       |
	+------+------+
	|  Formatter  |
	| (console)   |
	+-------------+

🎯 Purpose:
- Tally successes and failures of one transfer run
- Keep a per-file result so failures can be diagnosed afterwards
- Render progress lines, per-file lines and the final summary

⚡ Ownership:
An Outcome is written only by the worker that runs the transfer and is handed
to readers once, inside the terminal event. Nothing here is safe for
concurrent mutation and nothing needs to be.

🔍 Example:

	out := status.NewOutcome(status.ModeMove, "older than 7 days", time.Now())
	out.Record(status.FileResult{Index: 0, Name: "a.jpg", Bytes: 1024})
	fmt.Println(out.Summary())
	// Moved 1 files
	// Filter: older than 7 days
*/
package status
