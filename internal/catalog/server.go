package catalog

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Fixture is the document the stub server serves, shaped like a json-server db.
type Fixture struct {
	Products []FixtureProduct `json:"products"`
	Stock    []FixtureStock   `json:"stock"`
}

type FixtureProduct struct {
	ID    int64       `json:"id"`
	Title string      `json:"title"`
	Price json.Number `json:"price"`
	Image string      `json:"image"`
}

type FixtureStock struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

func LoadFixture(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("os.ReadFile: %w", err)
	}

	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return Fixture{}, fmt.Errorf("fixture[%s] is not valid: %w", path, err)
	}

	return f, nil
}

// Server is a stand-in for the storefront API used in development and tests.
type Server struct {
	mu       sync.RWMutex
	products map[int64]FixtureProduct
	order    []int64
	stock    map[int64]int
	log      logrus.FieldLogger
}

func NewServer(f Fixture, log logrus.FieldLogger) *Server {
	s := &Server{
		products: make(map[int64]FixtureProduct, len(f.Products)),
		stock:    make(map[int64]int, len(f.Stock)),
		log:      log,
	}
	for _, p := range f.Products {
		s.products[p.ID] = p
		s.order = append(s.order, p.ID)
	}
	for _, st := range f.Stock {
		s.stock[st.ID] = st.Amount
	}

	return s
}

// SetStock changes the stock served for a product.
func (s *Server) SetStock(productID int64, amount int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stock[productID] = amount
}

func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/products", s.listProducts).Methods(http.MethodGet)
	r.HandleFunc("/products/{id:[0-9]+}", s.getProduct).Methods(http.MethodGet)
	r.HandleFunc("/stock/{id:[0-9]+}", s.getStock).Methods(http.MethodGet)
	r.Use(s.logRequests)

	return r
}

func (s *Server) listProducts(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]FixtureProduct, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.products[id])
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product id"})
		return
	}

	s.mu.RLock()
	p, ok := s.products[id]
	s.mu.RUnlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{})
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (s *Server) getStock(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product id"})
		return
	}

	s.mu.RLock()
	amount, ok := s.stock[id]
	s.mu.RUnlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{})
		return
	}

	writeJSON(w, http.StatusOK, FixtureStock{ID: id, Amount: amount})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Debug("catalog stub request")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
