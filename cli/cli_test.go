package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agroverse/advisory"
	"agroverse/auth"
	"agroverse/config"
	"agroverse/errx"
	"agroverse/globals"
	"agroverse/logx"
	"agroverse/models"
	"agroverse/ratelim"
	"agroverse/rdx"
	"agroverse/remote/remotetest"
)

type harness struct {
	t       *testing.T
	backend *remotetest.Server
	store   *auth.MemoryStore
	cfg     *config.Config
}

func newHarness(t *testing.T) *harness {
	backend := remotetest.New(t)
	return &harness{
		t:       t,
		backend: backend,
		store:   auth.NewMemoryStore(),
		cfg: &config.Config{
			Env:         logx.Production,
			APIBaseURL:  backend.URL(),
			AdvisoryURL: backend.URL(),
			UserID:      "user1",
			HTTPTimeout: 5 * time.Second,
			Retry:       config.Retry{MaxAttempts: 1},
		},
	}
}

func (h *harness) loggedIn() {
	token := h.backend.AddAccount("asha@farm.in", "pw")
	require.NoError(h.t, h.store.Set(globals.TokenKey, token))
}

func (h *harness) run(stdin string, args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	app, err := New(Options{
		Config: h.cfg,
		Store:  h.store,
		Stdin:  strings.NewReader(stdin),
		Stdout: &out,
		Stderr: &errOut,
	})
	require.NoError(h.t, err)
	code = app.Run(context.Background(), args)
	return code, out.String(), errOut.String()
}

func TestUsage(t *testing.T) {
	h := newHarness(t)

	code, _, stderr := h.run("")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "usage: agroverse")

	code, _, stderr = h.run("", "harvest")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown command "harvest"`)

	code, _, stderr = h.run("", "products")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "usage: agroverse products {add,approve,contact,dashboard,list,request}")
}

func TestLoginWhoamiLogout(t *testing.T) {
	h := newHarness(t)
	h.backend.AddAccount("asha@farm.in", "pw")

	code, _, stderr := h.run("", "whoami")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Not logged in.")

	code, _, stderr = h.run("", "login", "-email", "asha@farm.in", "-password", "wrong")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Invalid email or password")

	code, stdout, _ := h.run("pw\n", "login", "-email", "asha@farm.in")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Logged in successfully!")

	code, stdout, _ = h.run("", "whoami")
	assert.Equal(t, 0, code)
	assert.Equal(t, "(unknown) (id user1)\n", stdout)

	code, stdout, _ = h.run("", "logout")
	assert.Equal(t, 0, code)
	assert.Equal(t, "Logged out.\n", stdout)
	_, err := h.store.Get(globals.TokenKey)
	assert.ErrorIs(t, err, auth.ErrNotFound)
}

func TestLoginNeedsFields(t *testing.T) {
	h := newHarness(t)
	code, _, stderr := h.run("", "login")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, auth.LoginFieldsMessage)
	assert.Zero(t, h.backend.Count("POST /api/auth/login"))
}

func TestRegister(t *testing.T) {
	h := newHarness(t)
	code, stdout, _ := h.run("", "register", "-email", "new@farm.in", "-name", "New", "-password", "pw",
		"-contact", "98765", "-address", "Village Road")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Registered successfully!")
	assert.Contains(t, h.backend.Accounts, "new@farm.in")
}

func TestProductsList(t *testing.T) {
	h := newHarness(t)
	h.backend.Products = []models.Product{
		{ID: "p1", Name: "Tomato seeds", Category: "Seeds", Price: 50, Seller: "Ravi"},
		{ID: "p2", Name: "Urea", Category: "Fertilizers", Price: 300, Seller: "Meena"},
	}

	code, stdout, _ := h.run("", "products", "list")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "== Seeds ==")
	assert.Contains(t, stdout, "== Fertilizers ==")

	code, stdout, _ = h.run("", "products", "list", "-q", "urea")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Urea")
	assert.NotContains(t, stdout, "Tomato")
}

func TestProductsRequestValidatesQuantity(t *testing.T) {
	h := newHarness(t)
	h.backend.Products = []models.Product{{ID: "p1", Name: "Tomato seeds", Category: "Seeds", Price: 50, Seller: "Ravi"}}

	code, _, stderr := h.run("", "products", "request", "-id", "p1", "-quantity", "1.5")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Please enter a valid quantity.")
	assert.Zero(t, h.backend.Count("POST /api/product-requests"))

	code, stdout, _ := h.run("", "products", "request", "-id", "p1", "-quantity", "3")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Your request for 3 units of Tomato seeds has been sent to the seller.")
}

func TestEquipmentContact(t *testing.T) {
	h := newHarness(t)
	h.backend.Equipment = []models.Equipment{
		{ID: "e1", Name: "Tractor", Category: "Tractors", Price: 1500, OwnerID: "u9"},
		{ID: "e2", Name: "Sprayer", Category: "Sprayers", Price: 200, OwnerID: "u9", Phone: "98 765 43210"},
	}

	code, stdout, _ := h.run("", "equipment", "contact", "-id", "e1")
	assert.Equal(t, 0, code)
	assert.Equal(t, "Owner: u9\nNo contact info available.\n", stdout)

	code, stdout, _ = h.run("", "equipment", "contact", "-id", "e2")
	assert.Equal(t, 0, code)
	assert.Equal(t, "tel:9876543210\n", stdout)

	code, _, stderr := h.run("", "equipment", "book", "-id", "e1", "-days", "0")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Please enter a valid number of days.")
}

const shopScript = "add s1\nadd s1\ncart\ncheckout\nFarm Road\n98765\n\nquit\n"

func seedShop(h *harness) {
	h.backend.StoreProducts = []models.StoreProduct{
		{ID: "s1", Name: "Weeder", Brand: "Kisan", Category: "Tools", Price: 120},
		{ID: "s2", Name: "Drip kit", Category: "Irrigation", Price: 900},
	}
}

func TestStoreCheckoutNeedsLogin(t *testing.T) {
	h := newHarness(t)
	seedShop(h)

	code, stdout, stderr := h.run(shopScript, "store")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Total: ₹240")
	assert.Contains(t, stderr, "Please login to place an order.")
	assert.Zero(t, h.backend.Count("POST /api/orders"))
}

func TestStoreCheckout(t *testing.T) {
	h := newHarness(t)
	seedShop(h)
	h.loggedIn()

	code, stdout, stderr := h.run(shopScript, "store")
	assert.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Order placed successfully!")
	assert.Contains(t, stdout, "Order id: ord-")

	require.Len(t, h.backend.Orders, 1)
	o := h.backend.Orders[0]
	assert.Equal(t, 240.0, o.Total)
	assert.Equal(t, models.PaymentCOD, o.PaymentMode)
	assert.Equal(t, []models.CartLine{{ItemID: "s1", Name: "Weeder", UnitPrice: 120, Quantity: 2}}, o.Items)
}

func TestOrdersWithReceipts(t *testing.T) {
	h := newHarness(t)
	h.loggedIn()
	h.backend.Orders = []models.Order{{
		ID:          "ord-7",
		Items:       []models.CartLine{{ItemID: "s1", Name: "Weeder", UnitPrice: 120, Quantity: 1}},
		Total:       120,
		Address:     "Farm Road",
		Contact:     "98765",
		PaymentMode: models.PaymentCOD,
		Status:      "placed",
	}}
	dir := t.TempDir()

	code, stdout, stderr := h.run("", "orders", "-receipts", dir)
	assert.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Total: ₹120")
	assert.Contains(t, stdout, "Wrote 1 receipts")
	_, err := os.Stat(filepath.Join(dir, "receipt-ord-7.pdf"))
	assert.NoError(t, err)
}

func TestSessionExpiredOnUnauthorized(t *testing.T) {
	h := newHarness(t)
	h.loggedIn()
	h.backend.Fail["GET /api/orders"] = http.StatusUnauthorized

	code, _, stderr := h.run("", "orders")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Session expired: unauthorized")
	assert.Contains(t, stderr, errx.SessionExpiredMessage)
	_, err := h.store.Get(globals.TokenKey)
	assert.ErrorIs(t, err, auth.ErrNotFound)
}

func TestAdvisoryOffline(t *testing.T) {
	h := newHarness(t)

	code, stdout, _ := h.run("", "advisory", "advice", "-crop", "Rice", "-soil", "Clay")
	assert.Equal(t, 0, code)
	assert.Equal(t, "Clay soil is ideal for rice. Ensure proper puddling before transplanting.\n", stdout)

	code, stdout, _ = h.run("", "advisory", "calendar", "-state", "Punjab")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Rabi")
	assert.Contains(t, stdout, "Wheat")

	code, _, stderr := h.run("", "advisory", "calendar", "-state", "Atlantis")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, advisory.NoCalendarMessage)

	code, stdout, _ = h.run("", "advisory", "prices", "-state", "Maharashtra", "-commodity", "Onion")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Lasalgaon")

	code, _, stderr = h.run("", "advisory", "weather", "-lat", "north")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, coordinatesMessage)
}

func TestAdvisoryWeatherThroughProxy(t *testing.T) {
	owm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"name":"Nashik","weather":[{"description":"clear sky"}],"main":{"temp":29,"humidity":35}}`)
	}))
	t.Cleanup(owm.Close)

	cfg := config.Proxy{OpenWeatherAPIKey: "k", WeatherTTL: time.Minute}
	proxy := httptest.NewServer(ProxyHandler(cfg, rdx.NewMemory(), ratelim.NewRateLimiter(100, 100),
		advisory.WithUpstreams(owm.URL, owm.URL)))
	t.Cleanup(proxy.Close)

	h := newHarness(t)
	h.cfg.AdvisoryURL = proxy.URL

	code, stdout, stderr := h.run("", "advisory", "weather", "-lat", "19.99", "-lon", "73.78")
	assert.Equal(t, 0, code, stderr)
	assert.Equal(t, "Location: Nashik\nWeather: clear sky\nTemperature: 29°C\nHumidity: 35%\n", stdout)
}

func TestProxyHandlerChain(t *testing.T) {
	h := ProxyHandler(config.Proxy{}, nil, ratelim.NewRateLimiter(100, 100))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://app.agroverse.in")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
