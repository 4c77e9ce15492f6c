package notely_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/notely"
)

// Example_basic creates a tag and a note, then filters by title and tag.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "notely-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	ctx := context.Background()
	svc, err := notely.New(ctx, tmpDir, notely.WithAutoInit(true))
	if err != nil {
		log.Fatal(err)
	}
	defer svc.Close(ctx)

	work, err := svc.NewTag(ctx, "work")
	if err != nil {
		log.Fatal(err)
	}
	if _, err := svc.CreateNote(ctx, notely.NoteData{Title: "Quarterly plan", Tags: []notely.Tag{work}}); err != nil {
		log.Fatal(err)
	}
	if _, err := svc.CreateNote(ctx, notely.NoteData{Title: "Groceries"}); err != nil {
		log.Fatal(err)
	}

	for _, v := range svc.Filter(notely.Query{Title: "PLAN", Tags: []notely.Tag{work}}) {
		fmt.Println(v.Title, len(v.Tags))
	}
	// Output:
	// Quarterly plan 1
}

// Example_renameTag shows that a renamed tag appears on every note referencing it.
func Example_renameTag() {
	ctx := context.Background()
	svc, err := notely.New(ctx, "", notely.WithAdapter(notely.AdapterMemory))
	if err != nil {
		log.Fatal(err)
	}

	tag, _ := svc.NewTag(ctx, "hom")
	note, _ := svc.CreateNote(ctx, notely.NoteData{Title: "Chores", Tags: []notely.Tag{tag}})
	_, _ = svc.UpdateTag(ctx, tag.ID, "home")

	view, _ := svc.View(note.ID)
	fmt.Println(view.Tags[0].Label)
	// Output:
	// home
}
