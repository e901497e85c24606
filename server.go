// Copyright (C) 2025, VigilantDoomer
//
// This file is part of NodesView program.
//
// NodesView is free software: you can redistribute it
// and/or modify it under the terms of GNU General Public License
// as published by the Free Software Foundation, either version 2 of
// the License, or (at your option) any later version.
//
// NodesView is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with NodesView.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"

	"github.com/vigilantdoomer/nodesview/nodes"
)

// ReloadFunc produces a new snapshot, e.g. after the wad was edited
type ReloadFunc func(ctx context.Context) (*Snapshot, error)

// QueryServer answers questions about the current snapshot over HTTP.
// Reload builds a new snapshot and swaps it in atomically, queries already
// running keep using the old one
type QueryServer struct {
	server   *http.Server
	router   *mux.Router
	current  atomic.Pointer[Snapshot]
	reload   ReloadFunc
	reloadMu sync.Mutex
}

func NewQueryServer(cfg *ProgramConfig, initial *Snapshot,
	reload ReloadFunc) *QueryServer {
	router := mux.NewRouter()
	srv := &http.Server{
		Addr:         cfg.ServeAddr,
		WriteTimeout: cfg.WriteTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		Handler:      router,
	}
	qs := &QueryServer{
		server: srv,
		router: router,
		reload: reload,
	}
	qs.current.Store(initial)
	qs.registerRoutes()
	return qs
}

func (qs *QueryServer) registerRoutes() {
	qs.router.HandleFunc("/stats", qs.statsHandler).Methods("GET")
	qs.router.HandleFunc("/locate", qs.locateHandler).Methods("GET")
	qs.router.HandleFunc("/subsectors/{index:[0-9]+}", qs.subsectorHandler).Methods("GET")
	qs.router.HandleFunc("/nodes/{index:[0-9]+}/{side:left|right}", qs.nodeHandler).Methods("GET")
	qs.router.HandleFunc("/reload", qs.reloadHandler).Methods("POST")
}

func (qs *QueryServer) Handler() http.Handler {
	return qs.router
}

func (qs *QueryServer) Current() *Snapshot {
	return qs.current.Load()
}

// Start serves until Stop is called
func (qs *QueryServer) Start() error {
	Log.Printf("HTTP server starting on %s\n", qs.server.Addr)
	err := qs.server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (qs *QueryServer) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := qs.server.Shutdown(ctx); err != nil {
		Log.Error("HTTP server shutdown error: %v\n", err)
	}
	Log.Printf("HTTP server stopped\n")
}

type statsResponse struct {
	ID            string  `json:"id"`
	WadFile       string  `json:"wad"`
	Level         string  `json:"level"`
	LoadedAt      string  `json:"loaded_at"`
	Format        string  `json:"format"`
	Nodes         int     `json:"nodes"`
	Segs          int     `json:"segs"`
	Subsectors    int     `json:"subsectors"`
	Vertices      int     `json:"vertices"`
	MapVertices   int     `json:"map_vertices"`
	Degenerate    int     `json:"degenerate"`
	Height        int     `json:"height"`
	MaxCoordinate float64 `json:"max_coordinate"`
}

type locateResponse struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Subsector int     `json:"subsector"`
	Inside    bool    `json:"inside"`
	Candidate int     `json:"candidate"`
}

type subsectorResponse struct {
	Index    int          `json:"index"`
	FirstSeg int          `json:"first_seg"`
	NumSegs  int          `json:"num_segs"`
	Polygon  [][2]float64 `json:"polygon"`
	Area     float64      `json:"area"`
}

type childResponse struct {
	Leaf  bool `json:"leaf"`
	Index int  `json:"index"`
}

type boxResponse struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}

type nodeResponse struct {
	Index      int           `json:"index"`
	Side       string        `json:"side"`
	Start      [2]float64    `json:"start"`
	Delta      [2]float64    `json:"delta"`
	Child      childResponse `json:"child"`
	Box        boxResponse   `json:"box"`
	Parent     int           `json:"parent"`
	SplitChain []int         `json:"split_chain"`
	Region     [][2]float64  `json:"region"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func statsOf(snap *Snapshot) statsResponse {
	t := snap.Tree
	return statsResponse{
		ID:            snap.ID.String(),
		WadFile:       snap.WadFile,
		Level:         snap.Level,
		LoadedAt:      snap.LoadedAt.Format(time.RFC3339),
		Format:        t.Format().String(),
		Nodes:         t.NodeCount(),
		Segs:          t.SegCount(),
		Subsectors:    t.SubsectorCount(),
		Vertices:      t.VertexCount(),
		MapVertices:   t.MapVertexCount(),
		Degenerate:    t.DegenerateCount(),
		Height:        t.Height(),
		MaxCoordinate: t.MaxCoordinate(),
	}
}

func pointsOf(poly nodes.Polygon) [][2]float64 {
	res := make([][2]float64, len(poly))
	for i, v := range poly {
		res[i] = [2]float64{v.X, v.Y}
	}
	return res
}

func (qs *QueryServer) statsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statsOf(qs.Current()))
}

func (qs *QueryServer) locateHandler(w http.ResponseWriter, r *http.Request) {
	x, errX := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
	y, errY := strconv.ParseFloat(r.URL.Query().Get("y"), 64)
	if errX != nil || errY != nil {
		writeError(w, http.StatusBadRequest, "x and y are required numbers")
		return
	}
	t := qs.Current().Tree
	p := nodes.Point{X: x, Y: y}
	ss, ok := t.PointToLeaf(p)
	writeJSON(w, http.StatusOK, locateResponse{
		X:         x,
		Y:         y,
		Subsector: ss,
		Inside:    ok,
		Candidate: t.CandidateLeaf(p),
	})
}

func (qs *QueryServer) subsectorHandler(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad subsector index")
		return
	}
	ss, ok := qs.Current().Tree.Subsector(idx)
	if !ok {
		writeError(w, http.StatusNotFound, "no such subsector")
		return
	}
	writeJSON(w, http.StatusOK, subsectorResponse{
		Index:    idx,
		FirstSeg: ss.FirstSeg,
		NumSegs:  ss.NumSegs,
		Polygon:  pointsOf(ss.Polygon),
		Area:     -ss.Polygon.Area(),
	})
}

func (qs *QueryServer) nodeHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	idx, err := strconv.Atoi(vars["index"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad node index")
		return
	}
	side := nodes.SIDE_RIGHT
	if vars["side"] == "left" {
		side = nodes.SIDE_LEFT
	}
	t := qs.Current().Tree
	n, ok := t.Node(idx)
	if !ok {
		writeError(w, http.StatusNotFound, "no such node")
		return
	}
	region, _ := t.RegionForNode(idx, side)
	c := n.Child(side)
	b := n.Box(side)
	box := boxResponse{Top: b.Top, Bottom: b.Bottom, Left: b.Left, Right: b.Right}
	chain := t.SplitChain(idx)
	if chain == nil {
		chain = []int{}
	}
	writeJSON(w, http.StatusOK, nodeResponse{
		Index:      idx,
		Side:       side.String(),
		Start:      [2]float64{n.Start.X, n.Start.Y},
		Delta:      [2]float64{n.Delta.X, n.Delta.Y},
		Child:      childResponse{Leaf: c.IsLeaf(), Index: c.Index()},
		Box:        box,
		Parent:     n.Parent,
		SplitChain: chain,
		Region:     pointsOf(region),
	})
}

func (qs *QueryServer) reloadHandler(w http.ResponseWriter, r *http.Request) {
	if qs.reload == nil {
		writeError(w, http.StatusNotImplemented, "reload is not available")
		return
	}
	// one reload at a time, each may run a nodebuilder
	qs.reloadMu.Lock()
	defer qs.reloadMu.Unlock()
	snap, err := qs.reload(r.Context())
	if err != nil {
		Log.Error("Reload failed: %s\n", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	qs.current.Store(snap)
	Log.Printf("Reloaded level %s, snapshot %s\n", snap.Level, snap.ID)
	writeJSON(w, http.StatusOK, statsOf(snap))
}
