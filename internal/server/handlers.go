package server

import (
	"fmt"
	"net/http"
	"runtime"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mumumio1/mockapi/internal/bench"
	"github.com/mumumio1/mockapi/internal/log"
	"github.com/mumumio1/mockapi/internal/model"
)

const performanceConcurrency = "goroutines (net/http)"

// Health reports the instance identity and liveness
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.inst.Health())
}

// ListPosts returns every post in seed order
func (s *Server) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts := s.data.Posts()
	for i := range posts {
		posts[i].ServerInfo = s.inst.Info()
	}
	writeJSON(w, http.StatusOK, posts)
}

// GetPost returns a single post by id
func (s *Server) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if ok {
		if post, found := s.data.PostByID(id); found {
			post.ServerInfo = s.inst.Info()
			writeJSON(w, http.StatusOK, post)
			return
		}
	}
	s.notFound(w, r, "post", "Post not found")
}

// ListUsers returns every user in seed order
func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	users := s.data.Users()
	for i := range users {
		users[i].ServerInfo = s.inst.Info()
	}
	writeJSON(w, http.StatusOK, users)
}

// GetUser returns a single user by id
func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if ok {
		if user, found := s.data.UserByID(id); found {
			user.ServerInfo = s.inst.Info()
			writeJSON(w, http.StatusOK, user)
			return
		}
	}
	s.notFound(w, r, "user", "User not found")
}

// Performance runs the fixed summation workload and reports how long the
// loop alone took.
func (s *Server) Performance(w http.ResponseWriter, r *http.Request) {
	res := bench.Run()

	if s.metrics != nil {
		s.metrics.ObservePerformanceLoop(res.Elapsed)
	}

	writeJSON(w, http.StatusOK, model.PerformanceResponse{
		Language:       model.Language,
		Server:         s.inst.Name,
		Timestamp:      s.inst.Timestamp(),
		Result:         res.Value,
		ProcessingTime: res.Micros(),
		Concurrency:    performanceConcurrency,
		Threads:        fmt.Sprintf("%dx GOMAXPROCS", runtime.GOMAXPROCS(0)),
	})
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request, resource, msg string) {
	if s.metrics != nil {
		s.metrics.RecordNotFound(resource)
	}
	s.logger.WithContext(r.Context()).Debug("Resource not found",
		log.String("resource", resource),
		log.String("id", mux.Vars(r)["id"]),
	)
	s.writeError(w, http.StatusNotFound, msg)
}

// pathID reads the numeric id route variable. The route pattern only
// admits digits, so the only failure left is an id too large for int.
func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return 0, false
	}
	return id, true
}
