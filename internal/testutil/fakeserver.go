// Package testutil provides an in-memory SkillSwap backend for tests.
package testutil

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	json "github.com/json-iterator/go"
	"github.com/pretheevi/skillswap/pkg/api"
)

type failure struct {
	status  int
	message string
	once    bool
}

// SkillForm is what the server received in the last multipart skill request
type SkillForm struct {
	Fields      map[string]string
	MediaName   string
	MediaType   string
	MediaBytes  int
	HasMedia    bool
	HasMediaKey bool
}

// Server is a fake SkillSwap backend. API routes live under /api, media
// files under /uploads.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	users    map[int64]*api.User
	password map[string]string
	tokens   map[string]int64
	skills   []*api.Skill
	comments map[int64][]api.Comment
	follows  map[[2]int64]bool
	media    map[string][]byte
	hits     map[string]int
	failures map[string]failure
	blocks   map[string]chan struct{}
	nextID   int64

	LastSkillForm   SkillForm
	LastProfileForm map[string]string
}

// NewServer starts a fake backend that is closed with the test
func NewServer(t *testing.T) *Server {
	t.Helper()
	s := &Server{
		users:    map[int64]*api.User{},
		password: map[string]string{},
		tokens:   map[string]int64{},
		comments: map[int64][]api.Comment{},
		follows:  map[[2]int64]bool{},
		media:    map[string][]byte{},
		hits:     map[string]int{},
		failures: map[string]failure{},
		blocks:   map[string]chan struct{}{},
		nextID:   100,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", s.login)
	mux.HandleFunc("POST /api/register", s.register)
	mux.HandleFunc("GET /api/skills", s.auth(s.listSkills))
	mux.HandleFunc("GET /api/skills/{id}", s.auth(s.getSkill))
	mux.HandleFunc("POST /api/skills", s.auth(s.createSkill))
	mux.HandleFunc("PUT /api/skills/{id}", s.auth(s.updateSkill))
	mux.HandleFunc("DELETE /api/skills/{id}", s.auth(s.deleteSkill))
	mux.HandleFunc("GET /api/my-skills", s.auth(s.mySkills))
	mux.HandleFunc("GET /api/my-skillsById/{id}", s.auth(s.skillsByUser))
	mux.HandleFunc("GET /api/comments/{id}", s.auth(s.listComments))
	mux.HandleFunc("POST /api/comment", s.auth(s.createComment))
	mux.HandleFunc("GET /api/profile", s.auth(s.profile))
	mux.HandleFunc("POST /api/profile", s.auth(s.updateProfile))
	mux.HandleFunc("GET /api/profileById/{id}", s.auth(s.profileByID))
	mux.HandleFunc("GET /api/profile/followers", s.auth(s.followers))
	mux.HandleFunc("GET /api/profile/following", s.auth(s.following))
	mux.HandleFunc("GET /api/profile/followers/byId/{id}", s.auth(s.followers))
	mux.HandleFunc("GET /api/profile/following/byId/{id}", s.auth(s.following))
	mux.HandleFunc("POST /api/users/{id}/follow", s.auth(s.follow))
	mux.HandleFunc("DELETE /api/users/{id}/follow", s.auth(s.unfollow))
	mux.HandleFunc("GET /api/users/search", s.auth(s.search))
	mux.HandleFunc("GET /uploads/{name}", s.serveMedia)

	s.Server = httptest.NewServer(s.intercept(mux))
	t.Cleanup(s.Close)
	return s
}

// APIURL is the base URL for client.Options.BaseURL
func (s *Server) APIURL() string {
	return s.URL + "/api"
}

// AddUser registers a user with a password and returns a valid token for it
func (s *Server) AddUser(u api.User, password string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := u
	s.users[u.ID] = &user
	s.password[u.Email] = password
	token := fmt.Sprintf("token-%d", u.ID)
	s.tokens[token] = u.ID
	return token
}

// AddSkill stores a post and returns its id
func (s *Server) AddSkill(sk api.Skill) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sk.ID == 0 {
		s.nextID++
		sk.ID = s.nextID
	}
	skill := sk
	if u, ok := s.users[sk.UserID]; ok {
		skill.UserName = u.Name
		skill.UserAvatar = u.Avatar
		skill.UserEmail = u.Email
	}
	s.skills = append(s.skills, &skill)
	return skill.ID
}

// AddComment stores a comment on a skill
func (s *Server) AddComment(skillID int64, c api.Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	c.ID = s.nextID
	c.SkillID = skillID
	s.comments[skillID] = append(s.comments[skillID], c)
	s.syncCommentCount(skillID)
}

// AddMedia serves data at /uploads/<name>
func (s *Server) AddMedia(name string, data []byte) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.media[name] = data
	return "/uploads/" + name
}

// SetFollow creates or removes a follow edge directly
func (s *Server) SetFollow(follower, followee int64, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.follows[[2]int64{follower, followee}] = on
}

// IsFollowing reports whether the edge follower -> followee exists
func (s *Server) IsFollowing(follower, followee int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.follows[[2]int64{follower, followee}]
}

// SkillCount returns the number of stored posts
func (s *Server) SkillCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.skills)
}

// Hits returns how many requests hit "METHOD /path"
func (s *Server) Hits(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[key]
}

// TotalHits returns the number of requests received
func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.hits {
		n += v
	}
	return n
}

// Fail makes every request to "METHOD /path" answer status with message
func (s *Server) Fail(key string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[key] = failure{status: status, message: message}
}

// FailOnce fails only the next request to key
func (s *Server) FailOnce(key string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[key] = failure{status: status, message: message, once: true}
}

// Recover removes an injected failure
func (s *Server) Recover(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, key)
}

// Block holds requests to key until the returned release func is called
func (s *Server) Block(key string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.blocks[key] = ch
	s.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.blocks, key)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *Server) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path

		s.mu.Lock()
		s.hits[key]++
		f, failing := s.failures[key]
		if failing && f.once {
			delete(s.failures, key)
		}
		block := s.blocks[key]
		s.mu.Unlock()

		if block != nil {
			select {
			case <-block:
			case <-r.Context().Done():
				return
			}
		}

		if failing {
			writeJSON(w, f.status, map[string]string{"error": f.message})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type authedHandler func(w http.ResponseWriter, r *http.Request, viewer int64)

func (s *Server) auth(h authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		viewer, ok := s.tokens[token]
		s.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			return
		}
		h(w, r, viewer)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if pw, ok := s.password[req.Email]; !ok || pw != req.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
		return
	}
	for token, id := range s.tokens {
		if s.users[id].Email == req.Email {
			writeJSON(w, http.StatusOK, api.LoginResponse{Token: token, User: *s.users[id]})
			return
		}
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "no token"})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		return
	}
	s.mu.Lock()
	if _, exists := s.password[req.Email]; exists {
		s.mu.Unlock()
		writeJSON(w, http.StatusConflict, map[string]string{"message": "Email already registered"})
		return
	}
	s.nextID++
	id := s.nextID
	s.mu.Unlock()

	s.AddUser(api.User{ID: id, Name: req.Name, Email: req.Email}, req.Password)
	writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered"})
}

func (s *Server) snapshotSkills(filter func(*api.Skill) bool) []api.Skill {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []api.Skill{}
	for i := len(s.skills) - 1; i >= 0; i-- {
		if filter == nil || filter(s.skills[i]) {
			out = append(out, *s.skills[i])
		}
	}
	return out
}

func (s *Server) listSkills(w http.ResponseWriter, r *http.Request, _ int64) {
	writeJSON(w, http.StatusOK, s.snapshotSkills(nil))
}

func (s *Server) mySkills(w http.ResponseWriter, r *http.Request, viewer int64) {
	writeJSON(w, http.StatusOK, s.snapshotSkills(func(sk *api.Skill) bool { return sk.UserID == viewer }))
}

func (s *Server) skillsByUser(w http.ResponseWriter, r *http.Request, _ int64) {
	id := pathID(r)
	writeJSON(w, http.StatusOK, s.snapshotSkills(func(sk *api.Skill) bool { return sk.UserID == id }))
}

func (s *Server) findSkill(id int64) (int, *api.Skill) {
	for i, sk := range s.skills {
		if sk.ID == id {
			return i, sk
		}
	}
	return -1, nil
}

func (s *Server) getSkill(w http.ResponseWriter, r *http.Request, _ int64) {
	s.mu.Lock()
	_, sk := s.findSkill(pathID(r))
	s.mu.Unlock()
	if sk == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Skill not found"})
		return
	}
	detail := map[string]interface{}{
		"id":            sk.ID,
		"title":         sk.Title,
		"description":   sk.Description,
		"category":      sk.Category,
		"level":         sk.Level,
		"rating":        sk.Rating,
		"comment_count": sk.CommentCount,
		"user_id":       sk.UserID,
		"user_name":     sk.UserName,
		"user_avatar":   sk.UserAvatar,
	}
	if len(sk.Media) > 0 {
		detail["media"] = sk.Media[0]
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) readSkillForm(r *http.Request) (SkillForm, error) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		return SkillForm{}, err
	}
	form := SkillForm{Fields: map[string]string{}}
	for k, v := range r.MultipartForm.Value {
		if len(v) > 0 {
			form.Fields[k] = v[0]
		}
	}
	_, form.HasMediaKey = form.Fields["media"]
	if files := r.MultipartForm.File["media"]; len(files) > 0 {
		fh := files[0]
		form.HasMedia = true
		form.HasMediaKey = true
		form.MediaName = fh.Filename
		form.MediaType = fh.Header.Get("Content-Type")
		f, err := fh.Open()
		if err == nil {
			data, _ := io.ReadAll(f)
			f.Close()
			form.MediaBytes = len(data)
		}
	}
	return form, nil
}

func (s *Server) createSkill(w http.ResponseWriter, r *http.Request, viewer int64) {
	form, err := s.readSkillForm(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid form"})
		return
	}
	s.mu.Lock()
	s.LastSkillForm = form
	s.mu.Unlock()

	sk := api.Skill{
		UserID:      viewer,
		Title:       form.Fields["title"],
		Description: form.Fields["description"],
		Category:    api.Category(form.Fields["category"]),
		Level:       api.Level(form.Fields["level"]),
	}
	if form.HasMedia {
		sk.Media = []api.Media{{URL: "/uploads/" + form.MediaName}}
	}
	id := s.AddSkill(sk)
	writeJSON(w, http.StatusCreated, map[string]int64{"skill_id": id})
}

func (s *Server) updateSkill(w http.ResponseWriter, r *http.Request, viewer int64) {
	form, err := s.readSkillForm(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid form"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastSkillForm = form
	_, sk := s.findSkill(pathID(r))
	if sk == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Skill not found"})
		return
	}
	if sk.UserID != viewer {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Not your skill"})
		return
	}
	sk.Title = form.Fields["title"]
	sk.Description = form.Fields["description"]
	sk.Category = api.Category(form.Fields["category"])
	sk.Level = api.Level(form.Fields["level"])
	switch {
	case form.HasMedia:
		sk.Media = []api.Media{{URL: "/uploads/" + form.MediaName}}
	case form.Fields["remove_media"] == "true":
		sk.Media = nil
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Skill updated"})
}

func (s *Server) deleteSkill(w http.ResponseWriter, r *http.Request, viewer int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, sk := s.findSkill(pathID(r))
	if sk == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Skill not found"})
		return
	}
	if sk.UserID != viewer {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Not your skill"})
		return
	}
	s.skills = append(s.skills[:i], s.skills[i+1:]...)
	delete(s.comments, sk.ID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Skill deleted"})
}

func (s *Server) syncCommentCount(skillID int64) {
	if _, sk := s.findSkill(skillID); sk != nil {
		sk.CommentCount = len(s.comments[skillID])
	}
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request, _ int64) {
	s.mu.Lock()
	comments := append([]api.Comment{}, s.comments[pathID(r)]...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, comments)
}

func (s *Server) createComment(w http.ResponseWriter, r *http.Request, viewer int64) {
	var req api.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Comment text is required"})
		return
	}
	s.mu.Lock()
	u := s.users[viewer]
	s.mu.Unlock()
	s.AddComment(req.SkillID, api.Comment{Text: req.Text, UserName: u.Name, UserAvatar: u.Avatar})
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Comment added"})
}

// userView returns u with counts and IsFollowing computed for viewer.
// Caller holds s.mu.
func (s *Server) userView(u *api.User, viewer int64) api.User {
	out := *u
	out.FollowerCount, out.FollowingCount = 0, 0
	for edge, on := range s.follows {
		if !on {
			continue
		}
		if edge[1] == u.ID {
			out.FollowerCount++
		}
		if edge[0] == u.ID {
			out.FollowingCount++
		}
	}
	out.IsFollowing = s.follows[[2]int64{viewer, u.ID}]
	return out
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request, viewer int64) {
	s.mu.Lock()
	u := s.userView(s.users[viewer], viewer)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) profileByID(w http.ResponseWriter, r *http.Request, viewer int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[pathID(r)]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
		return
	}
	writeJSON(w, http.StatusOK, s.userView(u, viewer))
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request, viewer int64) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid form"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	form := map[string]string{}
	for k, v := range r.MultipartForm.Value {
		form[k] = v[0]
	}
	if files := r.MultipartForm.File["avatar"]; len(files) > 0 {
		form["avatar"] = files[0].Filename
		s.users[viewer].Avatar = "/uploads/" + files[0].Filename
	}
	s.LastProfileForm = form
	s.users[viewer].Name = form["name"]
	s.users[viewer].Bio = form["bio"]
	writeJSON(w, http.StatusOK, s.userView(s.users[viewer], viewer))
}

func (s *Server) edgeList(r *http.Request, viewer int64, followers bool) []api.User {
	subject := viewer
	if r.PathValue("id") != "" {
		subject = pathID(r)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int64
	for edge, on := range s.follows {
		if !on {
			continue
		}
		if followers && edge[1] == subject {
			ids = append(ids, edge[0])
		}
		if !followers && edge[0] == subject {
			ids = append(ids, edge[1])
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := []api.User{}
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, s.userView(u, viewer))
		}
	}
	return out
}

func (s *Server) followers(w http.ResponseWriter, r *http.Request, viewer int64) {
	writeJSON(w, http.StatusOK, s.edgeList(r, viewer, true))
}

func (s *Server) following(w http.ResponseWriter, r *http.Request, viewer int64) {
	writeJSON(w, http.StatusOK, s.edgeList(r, viewer, false))
}

func (s *Server) follow(w http.ResponseWriter, r *http.Request, viewer int64) {
	target := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[target]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
		return
	}
	if target == viewer {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "You cannot follow yourself"})
		return
	}
	s.follows[[2]int64{viewer, target}] = true
	writeJSON(w, http.StatusOK, map[string]string{"message": "Followed"})
}

func (s *Server) unfollow(w http.ResponseWriter, r *http.Request, viewer int64) {
	target := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.follows, [2]int64{viewer, target})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Unfollowed"})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request, viewer int64) {
	q := strings.ToLower(r.URL.Query().Get("q"))
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []api.User{}
	ids := make([]int64, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		u := s.users[id]
		if id != viewer && strings.Contains(strings.ToLower(u.Name), q) {
			out = append(out, s.userView(u, viewer))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) serveMedia(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	data, ok := s.media[r.PathValue("name")]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	_, _ = w.Write(data)
}
