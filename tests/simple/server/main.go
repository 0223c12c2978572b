// Demo server: compiles a small schema with typegraph and serves the SDL and
// the bundle JSON over HTTP. Useful for poking at the compiler output and for
// wiring an execution engine against a realistic bundle.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	typegraph "github.com/hanpama/typegraph"
	"github.com/hanpama/typegraph/internal/otel"
)

type Priority int

const (
	PriorityLow  Priority = 1
	PriorityHigh Priority = 2
)

type Session struct{ Account string }

type Task struct {
	Id       typegraph.ID `graphql:"id"`
	Title    string
	Done     bool
	Priority Priority
}

type TaskInput struct {
	Title    string
	Priority Priority `default:"\"LOW\""`
}

type Query struct{}

type Mutation struct{}

type Events struct{}

type store struct {
	tasks  []*Task
	nextID int
}

var db = &store{
	tasks: []*Task{
		{Id: "t-1", Title: "write the schema", Done: true, Priority: PriorityHigh},
		{Id: "t-2", Title: "wire the engine", Priority: PriorityLow},
	},
	nextID: 3,
}

func listTasks(q Query, args struct {
	Done *bool `desc:"filter by completion"`
}) []*Task {
	if args.Done == nil {
		return db.tasks
	}
	var out []*Task
	for _, task := range db.tasks {
		if task.Done == *args.Done {
			out = append(out, task)
		}
	}
	return out
}

func whoAmI(q Query, ctx typegraph.Ctx[Session]) string {
	return ctx.State.Account
}

func createTask(m Mutation, args struct{ Task TaskInput }) (*Task, error) {
	task := &Task{
		Id:       typegraph.ID(fmt.Sprintf("t-%d", db.nextID)),
		Title:    args.Task.Title,
		Priority: args.Task.Priority,
	}
	db.nextID++
	db.tasks = append(db.tasks, task)
	return task, nil
}

func taskCompleted(e Events) <-chan *Task {
	ch := make(chan *Task)
	go func() {
		defer close(ch)
		for _, task := range db.tasks {
			if task.Done {
				ch <- task
			}
		}
	}()
	return ch
}

func buildSchema() (*typegraph.Schema, error) {
	r := typegraph.NewRegistry()

	if _, err := typegraph.RegisterEnum[Priority](r, map[string]Priority{
		"LOW":  PriorityLow,
		"HIGH": PriorityHigh,
	}); err != nil {
		return nil, err
	}
	if _, err := typegraph.RegisterObject[Task](r); err != nil {
		return nil, err
	}
	if _, err := typegraph.RegisterInput[TaskInput](r); err != nil {
		return nil, err
	}
	if _, err := typegraph.RegisterObject[Query](r,
		typegraph.WithField("tasks", listTasks),
		typegraph.WithField("whoAmI", whoAmI),
	); err != nil {
		return nil, err
	}
	if _, err := typegraph.RegisterObject[Mutation](r,
		typegraph.WithField("createTask", createTask),
	); err != nil {
		return nil, err
	}
	if _, err := typegraph.RegisterObject[Events](r,
		typegraph.WithSubscription("taskCompleted", taskCompleted),
	); err != nil {
		return nil, err
	}

	return typegraph.NewSchema(context.Background(), r, typegraph.Roots{
		Query:        Query{},
		Mutation:     Mutation{},
		Subscription: Events{},
	})
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	otlpEndpoint := flag.String("otlp", "", "OTLP gRPC endpoint for traces (empty disables)")
	flag.Parse()

	shutdown, err := otel.Setup(*otlpEndpoint, "typegraph-demo")
	if err != nil {
		log.Fatalf("otel setup: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	schema, err := buildSchema()
	if err != nil {
		log.Fatalf("schema build: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/sdl", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, schema.SDL())
	})
	mux.HandleFunc("/bundle", func(w http.ResponseWriter, _ *http.Request) {
		out, err := schema.EncodeJSON()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(out)
	})

	log.Printf("demo server listening on %s", *addr)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
