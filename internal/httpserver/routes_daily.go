// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Puzzle" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's puzzle (creates or reuses a session)
//   - POST /daily/check       → validate the daily board; records the result on a solve
//   - GET  /daily/leaderboard → fetch top 20 results for today (or a given date)
//
// Each user can score once per day (enforced by DB + in-memory session).
// The daily board itself is an ordinary session, so the /board/* move
// endpoints operate on it. Deterministic puzzle selection is based on
// date + salt.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lokgame/go-server/internal/board"
	"github.com/lokgame/go-server/internal/daily"
	"github.com/lokgame/go-server/internal/puzzles"
	"github.com/lokgame/go-server/internal/store"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	sessions map[string]*dailySession // active sessions keyed by userID|date
	mu       sync.Mutex               // guards sessions
}

// dailySession holds transient in-memory state for an in-progress daily
// solve.
type dailySession struct {
	BoardID  string
	UserID   string
	Date     string
	PuzzleID string
	Start    time.Time
	Solved   bool
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     getEnv("DAILY_SALT", "local_dev_salt"),
		sessions: make(map[string]*dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/check", dd.handleCheck)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// puzzleForNow returns today's date key and deterministic puzzle id.
func (d *dailyServer) puzzleForNow() (date, puzzleID string) {
	now := time.Now().UTC()
	date = daily.DateKey(now)
	ids := puzzles.IDs()
	if len(ids) == 0 {
		return date, ""
	}
	return date, ids[daily.PuzzleIndex(now, d.salt, len(ids))]
}

// userIDWithAnon returns the authenticated user ID if logged in,
// otherwise ensures an anonymous ID via Server.ensureAnonID.
func (d *dailyServer) userIDWithAnon(w http.ResponseWriter, r *http.Request) string {
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	BoardID  string `json:"boardId"`
	PuzzleID string `json:"puzzleId"`
	Date     string `json:"date"`
	Played   bool   `json:"played"`
}

// handleNew creates or reuses a daily session for the current date.
// - If the user already has a DB row for today → return Played=true.
// - Otherwise create/reuse an in-memory session and return its board id.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.userIDWithAnon(w, r)
	date, puzzleID := d.puzzleForNow()
	if puzzleID == "" {
		http.Error(w, `{"error":"no_puzzles"}`, http.StatusInternalServerError)
		return
	}

	// Check if already played (persisted in DB).
	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err == nil && played {
		_ = json.NewEncoder(w).Encode(dailyNewRes{Date: date, PuzzleID: puzzleID, Played: true})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	if sess, ok := d.sessions[key]; ok {
		d.mu.Unlock()
		_ = json.NewEncoder(w).Encode(dailyNewRes{BoardID: sess.BoardID, PuzzleID: puzzleID, Date: date})
		return
	}
	d.mu.Unlock()

	p, ok := puzzles.Get(puzzleID)
	if !ok {
		http.Error(w, `{"error":"no_puzzles"}`, http.StatusInternalServerError)
		return
	}
	b, err := board.New(p.Text)
	if err != nil {
		http.Error(w, `{"error":"bad_puzzle"}`, http.StatusInternalServerError)
		return
	}
	bs := &store.Session{ID: genID(), PuzzleID: puzzleID, Board: b, CreatedAt: time.Now()}
	if err := d.srv.store.Save(r.Context(), bs); err != nil {
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	d.mu.Lock()
	d.sessions[key] = &dailySession{
		BoardID:  bs.ID,
		UserID:   uid,
		Date:     date,
		PuzzleID: puzzleID,
		Start:    time.Now(),
	}
	d.mu.Unlock()

	_ = json.NewEncoder(w).Encode(dailyNewRes{BoardID: bs.ID, PuzzleID: puzzleID, Date: date})
}

// -----------------------------------------------------------------------------
// /daily/check

// dailyCheckReq is the request payload for /daily/check.
type dailyCheckReq struct {
	BoardID string `json:"boardId"`
}

// dailyCheckRes is the response payload for /daily/check.
type dailyCheckRes struct {
	Result    string `json:"result"`
	MoveIndex *int   `json:"moveIndex,omitempty"`
	ErrorKind string `json:"errorKind,omitempty"`
	State     string `json:"state"` // in_progress | solved | locked
}

// handleCheck validates today's board for this user.
// - Rejects if no session or the board id does not match.
// - Runs the validator like /board/check.
// - On a correct solution, locks the session and persists the result.
func (d *dailyServer) handleCheck(w http.ResponseWriter, r *http.Request) {
	uid := d.userIDWithAnon(w, r)

	var p dailyCheckReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	date, _ := d.puzzleForNow()

	key := uid + "|" + date
	d.mu.Lock()
	sess, ok := d.sessions[key]
	d.mu.Unlock()
	if !ok || sess.BoardID != p.BoardID {
		http.Error(w, `{"error":"no_session"}`, http.StatusConflict)
		return
	}
	if sess.Solved {
		_ = json.NewEncoder(w).Encode(dailyCheckRes{Result: board.Correct.String(), State: "locked"})
		return
	}

	bs, err := d.srv.store.Get(r.Context(), sess.BoardID)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}

	v := bs.Board.Validate()
	res := dailyCheckRes{Result: v.Kind.String(), State: "in_progress"}
	if v.Kind == board.ErrorOnMove {
		idx := v.MoveIndex
		res.MoveIndex = &idx
		res.ErrorKind = v.Err.String()
	}
	if v.Kind == board.Correct {
		d.mu.Lock()
		sess.Solved = true
		d.mu.Unlock()
		elapsed := int(time.Since(sess.Start).Milliseconds())
		_ = d.store.InsertResult(r.Context(), daily.Result{
			UserID: uid, Date: date, PuzzleID: sess.PuzzleID,
			Moves: bs.Board.MoveCount(), ElapsedMs: elapsed,
		})
		res.State = "solved"
	}
	_ = json.NewEncoder(w).Encode(res)
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default
// today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date, _ = d.puzzleForNow()
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
