// Package notely is the composition root of the notely notebook.
//
// notely keeps free-text markdown notes and a flat registry of tags. Notes
// reference tags by id; tags are resolved when notes are read, so renaming a
// tag shows up everywhere and deleting one drops it from every note view
// without rewriting the notes. The whole notebook lives in two slots of a
// key-value store ("NOTES" and "TAGS"), each holding a JSON array.
//
// Layers:
//
//   - pkg/core: domain types, pure reducers, the view join and the filter.
//   - pkg/notebook: the Service owning the current snapshot and persisting it.
//   - pkg/adapters: key-value stores (fs, memory, redis, sqlite, badger),
//     markdown export and the lifecycle event bridge.
//
// Usage:
//
//	svc, err := notely.New(ctx, "./notes",
//		notely.WithAutoInit(true),
//		notely.WithLogger(logger),
//	)
//
//	work, err := svc.NewTag(ctx, "work")
//	note, err := svc.CreateNote(ctx, notely.NoteData{Title: "Plan", Tags: []notely.Tag{work}})
//	views := svc.Filter(notely.Query{Title: "plan"})
package notely
