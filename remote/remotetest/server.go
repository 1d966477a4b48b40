// Package remotetest runs an in-memory backend for tests of packages that
// sit on top of remote.Client.
package remotetest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"agroverse/auth"
	"agroverse/config"
	"agroverse/models"
	"agroverse/remote"
	"agroverse/utils"
)

// Account is a registered user of the fake backend.
type Account struct {
	models.Registration
	Token string
}

// Server is a fake backend. All fields may be seeded before use and read
// afterwards; access them under Lock/Unlock while a test is running calls.
type Server struct {
	sync.Mutex

	Equipment       []models.Equipment
	Products        []models.Product
	StoreProducts   []models.StoreProduct
	RentRequests    []models.RentRequest
	ProductRequests []models.ProductRequest
	Orders          []models.Order
	Accounts        map[string]Account

	// Owners maps equipment ids to owner ids and product ids to seller ids,
	// for filtering requests by ?ownerId= and ?sellerId=.
	Owners map[string]string
	// Hits counts requests per "METHOD /path".
	Hits map[string]int
	// Fail forces the given status on every request whose "METHOD /path"
	// has the key as a prefix.
	Fail map[string]int

	srv *httptest.Server
	seq int
}

func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		Accounts: make(map[string]Account),
		Owners:   make(map[string]string),
		Hits:     make(map[string]int),
		Fail:     make(map[string]int),
	}
	s.srv = httptest.NewServer(s.router())
	t.Cleanup(s.srv.Close)
	return s
}

func (s *Server) URL() string {
	return s.srv.URL
}

// Client returns a remote client against s with a fresh in-memory session.
func (s *Server) Client(t testing.TB) *remote.Client {
	t.Helper()
	c, err := remote.New(remote.Options{
		BaseURL:    s.srv.URL,
		Session:    auth.NewSession(auth.NewMemoryStore(), "user1"),
		Retry:      config.Retry{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond},
		HTTPClient: s.srv.Client(),
	})
	if err != nil {
		t.Fatalf("remote client: %v", err)
	}
	return c
}

// Count reports how many times "METHOD /path" was hit.
func (s *Server) Count(key string) int {
	s.Lock()
	defer s.Unlock()
	return s.Hits[key]
}

func (s *Server) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s%d", prefix, s.seq)
}

func (s *Server) router() http.Handler {
	r := httprouter.New()
	r.POST("/api/auth/login", s.login)
	r.POST("/api/auth/register", s.register)
	r.GET("/api/equipment", s.listEquipment)
	r.POST("/api/equipment", s.createEquipment)
	r.GET("/api/products", s.listProducts)
	r.POST("/api/products", s.createProduct)
	r.GET("/api/productsb2c", s.listStore)
	r.GET("/api/rent-requests", s.listRentRequests)
	r.POST("/api/rent-requests", s.createRentRequest)
	r.POST("/api/rent-requests/:id/approve", s.approveRent)
	r.GET("/api/product-requests", s.listProductRequests)
	r.POST("/api/product-requests", s.createProductRequest)
	r.POST("/api/product-requests/:id/approve", s.approveProduct)
	r.GET("/api/orders", s.requireToken(s.listOrders))
	r.POST("/api/orders", s.requireToken(s.createOrder))
	r.POST("/api/upload", s.upload)

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		key := req.Method + " " + req.URL.Path
		s.Lock()
		s.Hits[key]++
		status := 0
		for prefix, code := range s.Fail {
			if strings.HasPrefix(key, prefix) {
				status = code
			}
		}
		s.Unlock()
		if status != 0 {
			utils.RespondWithError(w, status, http.StatusText(status))
			return
		}
		r.ServeHTTP(w, req)
	})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return false
	}
	return true
}

func (s *Server) requireToken(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.Lock()
		ok := false
		for _, a := range s.Accounts {
			if token != "" && a.Token == token {
				ok = true
			}
		}
		s.Unlock()
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		next(w, r, ps)
	}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var creds models.Credentials
	if !decode(w, r, &creds) {
		return
	}
	s.Lock()
	defer s.Unlock()
	a, ok := s.Accounts[creds.Email]
	if !ok || a.Password != creds.Password {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.AuthResponse{Token: a.Token})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var reg models.Registration
	if !decode(w, r, &reg) {
		return
	}
	s.Lock()
	defer s.Unlock()
	if _, exists := s.Accounts[reg.Email]; exists {
		utils.RespondWithError(w, http.StatusConflict, "User already exists")
		return
	}
	s.Accounts[reg.Email] = Account{Registration: reg, Token: s.nextID("tok-")}
	utils.RespondWithJSON(w, http.StatusCreated, models.AuthResponse{Message: "User registered successfully"})
}

func (s *Server) listEquipment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	owner := r.URL.Query().Get("ownerId")
	s.Lock()
	defer s.Unlock()
	out := []models.Equipment{}
	for _, e := range s.Equipment {
		if owner == "" || e.OwnerID == owner {
			out = append(out, e)
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

func (s *Server) createEquipment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var e models.Equipment
	if !decode(w, r, &e) {
		return
	}
	s.Lock()
	defer s.Unlock()
	e.ID = s.nextID("eq-")
	s.Equipment = append(s.Equipment, e)
	s.Owners[e.ID] = e.OwnerID
	utils.RespondWithJSON(w, http.StatusCreated, e)
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	seller := r.URL.Query().Get("sellerId")
	s.Lock()
	defer s.Unlock()
	out := []models.Product{}
	for _, p := range s.Products {
		if seller == "" || p.SellerID == seller {
			out = append(out, p)
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var p models.Product
	if !decode(w, r, &p) {
		return
	}
	s.Lock()
	defer s.Unlock()
	p.ID = s.nextID("pr-")
	s.Products = append(s.Products, p)
	s.Owners[p.ID] = p.SellerID
	utils.RespondWithJSON(w, http.StatusCreated, p)
}

func (s *Server) listStore(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	s.Lock()
	defer s.Unlock()
	utils.RespondWithJSON(w, http.StatusOK, s.StoreProducts)
}

func (s *Server) listRentRequests(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	owner := r.URL.Query().Get("ownerId")
	s.Lock()
	defer s.Unlock()
	out := []models.RentRequest{}
	for _, rr := range s.RentRequests {
		if owner == "" || s.Owners[rr.EquipmentID] == owner {
			out = append(out, rr)
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

func (s *Server) createRentRequest(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in models.NewRentRequest
	if !decode(w, r, &in) {
		return
	}
	s.Lock()
	defer s.Unlock()
	rr := models.RentRequest{
		ID:          s.nextID("rr-"),
		EquipmentID: in.EquipmentID,
		UserID:      in.UserID,
		Days:        in.Days,
		Status:      models.StatusPending,
	}
	s.RentRequests = append(s.RentRequests, rr)
	utils.RespondWithJSON(w, http.StatusCreated, rr)
}

func (s *Server) approveRent(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	s.Lock()
	defer s.Unlock()
	for i := range s.RentRequests {
		if s.RentRequests[i].ID == ps.ByName("id") {
			s.RentRequests[i].Status = models.StatusApproved
			utils.RespondWithJSON(w, http.StatusOK, s.RentRequests[i])
			return
		}
	}
	utils.RespondWithError(w, http.StatusNotFound, "Request not found")
}

func (s *Server) listProductRequests(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	seller := r.URL.Query().Get("sellerId")
	s.Lock()
	defer s.Unlock()
	out := []models.ProductRequest{}
	for _, pr := range s.ProductRequests {
		if seller == "" || s.Owners[pr.ProductID] == seller {
			out = append(out, pr)
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

func (s *Server) createProductRequest(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in models.NewProductRequest
	if !decode(w, r, &in) {
		return
	}
	s.Lock()
	defer s.Unlock()
	pr := models.ProductRequest{
		ID:        s.nextID("prq-"),
		ProductID: in.ProductID,
		UserID:    in.UserID,
		Quantity:  in.Quantity,
		Status:    models.StatusPending,
	}
	s.ProductRequests = append(s.ProductRequests, pr)
	utils.RespondWithJSON(w, http.StatusCreated, pr)
}

func (s *Server) approveProduct(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	s.Lock()
	defer s.Unlock()
	for i := range s.ProductRequests {
		if s.ProductRequests[i].ID == ps.ByName("id") {
			s.ProductRequests[i].Status = models.StatusApproved
			utils.RespondWithJSON(w, http.StatusOK, s.ProductRequests[i])
			return
		}
	}
	utils.RespondWithError(w, http.StatusNotFound, "Request not found")
}

func (s *Server) listOrders(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	s.Lock()
	defer s.Unlock()
	utils.RespondWithJSON(w, http.StatusOK, s.Orders)
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var o models.Order
	if !decode(w, r, &o) {
		return
	}
	s.Lock()
	defer s.Unlock()
	o.ID = models.ID(s.nextID("ord-"))
	o.Status = "placed"
	now := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
	o.CreatedAt = &now
	s.Orders = append(s.Orders, o)
	utils.RespondWithJSON(w, http.StatusCreated, o)
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid upload")
		return
	}
	_, hdr, err := r.FormFile("image")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing image")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, remote.UploadResult{URL: "/uploads/" + hdr.Filename})
}

// AddAccount registers an account directly and returns its token.
func (s *Server) AddAccount(email, password string) string {
	s.Lock()
	defer s.Unlock()
	token := s.nextID("tok-")
	s.Accounts[email] = Account{
		Registration: models.Registration{Email: email, Password: password, Name: email},
		Token:        token,
	}
	return token
}
