/*
Package history keeps a journal of finished transfers.

Every run recorded by the CLI is stored as JSON in the "runs" bucket of a
bbolt database, keyed by its start time so that List walks the bucket from
the newest run backwards.

	store, err := history.Open("/home/me/.overflo/history.db")
	...
	defer store.Close()

	run, _ := store.Record(ctx, history.RunFromOutcome("photos", src, dst, spec.String(), outcome, nil))
	recent, _ := store.List(ctx, 10)
*/
package history
