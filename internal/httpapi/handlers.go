package httpapi

import (
	"encoding/json"
	"net/http"
	"slices"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/aretw0/notely/pkg/core"
)

var errNoteNotFound = echo.NewHTTPError(http.StatusNotFound, "note not found")

func healthz(nb Notebook) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, nb.State())
	}
}

// listNotes filters by ?title=, repeated ?tag=<id> (all required) and
// ?tagGlob= (at least one matching label). ?full=true includes markdown.
func listNotes(nb Notebook) echo.HandlerFunc {
	return func(c echo.Context) error {
		q := core.Query{Title: c.QueryParam("title")}
		for _, id := range c.QueryParams()["tag"] {
			tag, ok := nb.Tag(id)
			if !ok {
				tag = core.Tag{ID: id}
			}
			q.Tags = append(q.Tags, tag)
		}
		views := nb.Filter(q)

		if pattern := c.QueryParam("tagGlob"); pattern != "" {
			matched, err := core.MatchTags(nb.Tags(), pattern)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}
			views = slices.DeleteFunc(views, func(v core.NoteView) bool {
				return !slices.ContainsFunc(v.Tags, func(t core.Tag) bool {
					return slices.ContainsFunc(matched, func(m core.Tag) bool { return m.ID == t.ID })
				})
			})
		}

		if full, _ := strconv.ParseBool(c.QueryParam("full")); full {
			return c.JSON(http.StatusOK, views)
		}
		return c.JSON(http.StatusOK, core.Summaries(views))
	}
}

func createNote(nb Notebook) echo.HandlerFunc {
	return func(c echo.Context) error {
		var data core.NoteData
		if err := decode(c, &data); err != nil {
			return err
		}
		note, err := nb.CreateNote(c.Request().Context(), data)
		if err != nil {
			return err
		}
		view, _ := nb.View(note.ID)
		return c.JSON(http.StatusCreated, view)
	}
}

func getNote(nb Notebook) echo.HandlerFunc {
	return func(c echo.Context) error {
		view, ok := nb.View(c.Param("id"))
		if !ok {
			return errNoteNotFound
		}
		return c.JSON(http.StatusOK, view)
	}
}

// updateNote answers 204 whether or not the note exists.
func updateNote(nb Notebook) echo.HandlerFunc {
	return func(c echo.Context) error {
		var data core.NoteData
		if err := decode(c, &data); err != nil {
			return err
		}
		if _, err := nb.UpdateNote(c.Request().Context(), c.Param("id"), data); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func deleteNote(nb Notebook) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := nb.DeleteNote(c.Request().Context(), c.Param("id")); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func listTags(nb Notebook) echo.HandlerFunc {
	return func(c echo.Context) error {
		tags := nb.Tags()
		if pattern := c.QueryParam("glob"); pattern != "" {
			var err error
			if tags, err = core.MatchTags(tags, pattern); err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}
		}
		if tags == nil {
			tags = []core.Tag{}
		}
		return c.JSON(http.StatusOK, tags)
	}
}

// createTag registers {"label"} under a generated id, or {"id","label"} as given.
func createTag(nb Notebook) echo.HandlerFunc {
	return func(c echo.Context) error {
		var tag core.Tag
		if err := decode(c, &tag); err != nil {
			return err
		}
		ctx := c.Request().Context()
		if tag.ID == "" {
			created, err := nb.NewTag(ctx, tag.Label)
			if err != nil {
				return err
			}
			return c.JSON(http.StatusCreated, created)
		}
		if _, err := nb.AddTag(ctx, tag); err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, tag)
	}
}

func updateTag(nb Notebook) echo.HandlerFunc {
	return func(c echo.Context) error {
		var body struct {
			Label string `json:"label"`
		}
		if err := decode(c, &body); err != nil {
			return err
		}
		if _, err := nb.UpdateTag(c.Request().Context(), c.Param("id"), body.Label); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func deleteTag(nb Notebook) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := nb.DeleteTag(c.Request().Context(), c.Param("id")); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// streamEvents sends every notebook event as a server-sent event until the client leaves.
func streamEvents(nb Notebook) echo.HandlerFunc {
	return func(c echo.Context) error {
		flusher, ok := c.Response().Writer.(http.Flusher)
		if !ok {
			return echo.NewHTTPError(http.StatusInternalServerError, "stream unsupported")
		}
		ctx := c.Request().Context()
		events := nb.Subscribe(ctx)

		c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
		c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
		c.Response().Header().Set(echo.HeaderConnection, "keep-alive")
		c.Response().WriteHeader(http.StatusOK)
		flusher.Flush()

		for e := range events {
			data, err := json.Marshal(e)
			if err != nil {
				return err
			}
			if _, err := c.Response().Write([]byte("event: " + string(e.Type) + "\ndata: ")); err != nil {
				return nil
			}
			if _, err := c.Response().Write(append(data, '\n', '\n')); err != nil {
				return nil
			}
			flusher.Flush()
		}
		return nil
	}
}

func decode(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body").SetInternal(err)
	}
	return nil
}
