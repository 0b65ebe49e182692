// internal/httpserver/server.go
//
// HTTP server wiring for the LOK puzzle backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/puzzles".
//   - Board endpoints (optional auth): start a session, record moves,
//     undo, read display state, run the solution check.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints (require auth) live in auth.go.
//
// Notes:
//   - Move endpoints never judge legality: the engine accepts any
//     structurally valid move and all rule checking happens in
//     POST /board/check. Only out-of-range coordinates are rejected
//     here, since the engine treats those as fatal preconditions.
//   - CORS is origin-aware and credentials-enabled (so cookies work).

package httpserver

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/lokgame/go-server/internal/board"
	"github.com/lokgame/go-server/internal/puzzles"
	"github.com/lokgame/go-server/internal/store"
)

// Server bundles router, in-memory session store, and DB handle.
type Server struct {
	r     *chi.Mux
	store store.Store
	db    *sql.DB
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB) *Server {
	s := &Server{r: chi.NewRouter(), store: st, db: db}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)                     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"lok-go","endpoints":["/health","POST /board/new","POST /board/check","/daily/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/puzzles", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"count": puzzles.Stats(), "ids": puzzles.IDs()})
	})

	// Board endpoints — OPTIONAL AUTH (guests can play)
	br := s.r.With(s.withOptionalAuth())
	br.Post("/board/new", s.handleNewBoard)
	br.Post("/board/blacken", s.handleBlacken)
	br.Post("/board/mark", s.handleMark)
	br.Post("/board/letter", s.handleLetter)
	br.Post("/board/undo", s.handleUndo)
	br.Get("/board/state", s.handleState)
	br.Post("/board/check", s.handleCheck)

	// Daily Challenge — OPTIONAL AUTH (guests can play; result persisted on solve)
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	// Auth + profile/stats (require auth)
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ BOARD --------------------------------------

// newBoardReq/Res payloads for POST /board/new.
type newBoardReq struct {
	PuzzleID string `json:"puzzleId"`
}
type newBoardRes struct {
	BoardID  string `json:"boardId"`
	PuzzleID string `json:"puzzleId"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// handleNewBoard starts a fresh in-memory session for a pack puzzle and
// persists a DB "owner" row (user_id or anonymous_id) for history/stats.
func (s *Server) handleNewBoard(w http.ResponseWriter, r *http.Request) {
	var req newBoardReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	p, ok := puzzles.Get(req.PuzzleID)
	if !ok {
		http.Error(w, `{"error":"unknown_puzzle"}`, http.StatusNotFound)
		return
	}
	b, err := board.New(p.Text)
	if err != nil {
		// The pack is validated at startup; a bad puzzle here is a bug.
		log.Error().Err(err).Str("puzzle", p.ID).Msg("construct board")
		http.Error(w, `{"error":"bad_puzzle"}`, http.StatusInternalServerError)
		return
	}

	sess := &store.Session{ID: genID(), PuzzleID: p.ID, Board: b, CreatedAt: time.Now()}
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	// Persist owner row (best effort, non-fatal if it fails).
	now := time.Now().UTC().Format(time.RFC3339)
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		_, err := s.db.Exec(`INSERT INTO solves (id, user_id, puzzle_id, started_at, status, moves)
		                     VALUES (?,?,?,?,?,0)`, sess.ID, me.ID, p.ID, now, "playing")
		if err != nil {
			log.Warn().Err(err).Str("boardId", sess.ID).Msg("insert user solve row")
		}
	} else {
		anon := s.ensureAnonID(w, r)
		_, err := s.db.Exec(`INSERT INTO solves (id, anonymous_id, puzzle_id, started_at, status, moves)
		                     VALUES (?,?,?,?,?,0)`, sess.ID, anon, p.ID, now, "playing")
		if err != nil {
			log.Warn().Err(err).Str("boardId", sess.ID).Msg("insert anon solve row")
		}
	}

	_ = json.NewEncoder(w).Encode(newBoardRes{BoardID: sess.ID, PuzzleID: p.ID, Width: b.Width(), Height: b.Height()})
}

// moveReq is shared by the four mutation endpoints; Letter is only read
// by /board/letter.
type moveReq struct {
	BoardID string `json:"boardId"`
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	Letter  string `json:"letter"`
}

// moveRes acknowledges a recorded (or, for letter changes, rejected) move.
type moveRes struct {
	Applied bool `json:"applied"`
	Moves   int  `json:"moves"`
}

// loadSession resolves a board id or writes the error response.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request, id string) (*store.Session, bool) {
	if id == "" {
		http.Error(w, `{"error":"missing_board_id"}`, http.StatusBadRequest)
		return nil, false
	}
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

// decodeMove parses the request and checks coordinates against the board.
func (s *Server) decodeMove(w http.ResponseWriter, r *http.Request) (*store.Session, moveReq, bool) {
	var req moveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return nil, req, false
	}
	sess, ok := s.loadSession(w, r, req.BoardID)
	if !ok {
		return nil, req, false
	}
	if req.Row < 0 || req.Row >= sess.Board.Height() || req.Col < 0 || req.Col >= sess.Board.Width() {
		http.Error(w, `{"error":"coords_out_of_range"}`, http.StatusBadRequest)
		return nil, req, false
	}
	return sess, req, true
}

// bumpMoveCount mirrors the session's move count into the solve row.
func (s *Server) bumpMoveCount(sess *store.Session) {
	if _, err := s.db.Exec(`UPDATE solves SET moves=? WHERE id=?`, sess.Board.MoveCount(), sess.ID); err != nil {
		log.Warn().Err(err).Str("boardId", sess.ID).Msg("update solve moves")
	}
}

func (s *Server) handleBlacken(w http.ResponseWriter, r *http.Request) {
	sess, req, ok := s.decodeMove(w, r)
	if !ok {
		return
	}
	sess.Board.Blacken(req.Row, req.Col)
	s.bumpMoveCount(sess)
	_ = json.NewEncoder(w).Encode(moveRes{Applied: true, Moves: sess.Board.MoveCount()})
}

func (s *Server) handleMark(w http.ResponseWriter, r *http.Request) {
	sess, req, ok := s.decodeMove(w, r)
	if !ok {
		return
	}
	sess.Board.MarkPath(req.Row, req.Col)
	s.bumpMoveCount(sess)
	_ = json.NewEncoder(w).Encode(moveRes{Applied: true, Moves: sess.Board.MoveCount()})
}

// handleLetter records a letter change. A rejected change is not an HTTP
// error: it simply was never recorded, and Applied reports that.
func (s *Server) handleLetter(w http.ResponseWriter, r *http.Request) {
	sess, req, ok := s.decodeMove(w, r)
	if !ok {
		return
	}
	letters := []rune(req.Letter)
	if len(letters) != 1 {
		http.Error(w, `{"error":"letter_must_be_one_char"}`, http.StatusBadRequest)
		return
	}
	applied := sess.Board.ChangeLetter(req.Row, req.Col, letters[0])
	if applied {
		s.bumpMoveCount(sess)
	}
	_ = json.NewEncoder(w).Encode(moveRes{Applied: applied, Moves: sess.Board.MoveCount()})
}

type undoReq struct {
	BoardID string `json:"boardId"`
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	var req undoReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, ok := s.loadSession(w, r, req.BoardID)
	if !ok {
		return
	}
	sess.Board.Undo()
	s.bumpMoveCount(sess)
	_ = json.NewEncoder(w).Encode(moveRes{Applied: true, Moves: sess.Board.MoveCount()})
}

// cellView is the display state of one cell.
type cellView struct {
	Letter      string `json:"letter"`
	Interactive bool   `json:"interactive"`
	Blackened   bool   `json:"blackened"`
	Marked      bool   `json:"marked"`
	Marks       int    `json:"marks"`
}

type stateRes struct {
	BoardID  string       `json:"boardId"`
	PuzzleID string       `json:"puzzleId"`
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	Moves    int          `json:"moves"`
	Cells    [][]cellView `json:"cells"`
}

// handleState returns the current display grid for a session.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r, r.URL.Query().Get("boardId"))
	if !ok {
		return
	}
	b := sess.Board
	cells := make([][]cellView, b.Height())
	for row := range cells {
		cells[row] = make([]cellView, b.Width())
		for col := range cells[row] {
			c := b.At(row, col)
			cells[row][col] = cellView{
				Letter:      string(c.DisplayLetter()),
				Interactive: c.IsInteractive(),
				Blackened:   c.IsBlackened(),
				Marked:      c.IsMarked(),
				Marks:       c.MarkCount(),
			}
		}
	}
	_ = json.NewEncoder(w).Encode(stateRes{
		BoardID: sess.ID, PuzzleID: sess.PuzzleID,
		Width: b.Width(), Height: b.Height(),
		Moves: b.MoveCount(), Cells: cells,
	})
}

// checkReq/Res payloads for POST /board/check.
type checkReq struct {
	BoardID string `json:"boardId"`
}
type checkRes struct {
	Result    string `json:"result"` // correct | incomplete | not_idle | partial_keyword | error_on_move
	MoveIndex *int   `json:"moveIndex,omitempty"`
	ErrorKind string `json:"errorKind,omitempty"`
}

// handleCheck runs the validator over the session's move log. On a
// correct solution the solve row is finalized and user stats bumped.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, ok := s.loadSession(w, r, req.BoardID)
	if !ok {
		return
	}

	v := sess.Board.Validate()
	res := checkRes{Result: v.Kind.String()}
	if v.Kind == board.ErrorOnMove {
		idx := v.MoveIndex
		res.MoveIndex = &idx
		res.ErrorKind = v.Err.String()
	}

	if v.Kind == board.Correct {
		// Finalize history (best effort) and bump stats for users.
		now := time.Now().UTC().Format(time.RFC3339)
		if _, err := s.db.Exec(`UPDATE solves SET status='correct', finished_at=?, moves=? WHERE id=?`,
			now, sess.Board.MoveCount(), sess.ID); err != nil {
			log.Warn().Err(err).Str("boardId", sess.ID).Msg("finalize solve")
		}
		if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
			if err := s.bumpStats(me.ID); err != nil {
				log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
			}
		}
	}

	_ = json.NewEncoder(w).Encode(res)
}

// ------------------------------- small util --------------------------------

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
