package vault

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/vsc-eco/vsc-btc-vault/bitcoin"
	"github.com/vsc-eco/vsc-btc-vault/schemas"
)

// Server provides the HTTP API of a vault
type Server struct {
	vault  *Service
	router *mux.Router
	http   *http.Server
}

type VaultInfo struct {
	VaultID   string `json:"vault_id"`
	PublicKey string `json:"public_key"`
	Network   string `json:"network"`
	Format    string `json:"format"`
}

type DepositAddressRequest struct {
	SecureID string `json:"secure_id"`
}

type DepositAddressResponse struct {
	Address string `json:"address"`
	Network string `json:"network"`
	Format  string `json:"format"`
}

type ConvertRequest struct {
	Address string `json:"address"`
	Format  string `json:"format"`
	Network string `json:"network"`
}

type ConvertResponse struct {
	Address string `json:"address"`
}

// NewServer creates a new HTTP server for the vault
func NewServer(svc *Service, port string) *Server {
	s := &Server{
		vault: svc,
	}

	r := mux.NewRouter()

	r.HandleFunc("/api/v1/vault", s.handleGetVault).Methods("GET")
	r.HandleFunc("/api/v1/deposit-address", s.handleDepositAddress).Methods("POST")
	r.HandleFunc("/api/v1/issue", s.handleIssue).Methods("POST")
	r.HandleFunc("/api/v1/deposits", s.handleGetDeposits).Methods("GET")
	r.HandleFunc("/api/v1/deposits/{id}", s.handleGetDeposit).Methods("GET")
	r.HandleFunc("/api/v1/address/convert", s.handleConvert).Methods("POST")

	// Health check
	r.HandleFunc("/health", s.handleHealth).Methods("GET")

	s.router = r
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	return s
}

// Handler exposes the routes for embedding and tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

// Stop stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleGetVault(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VaultInfo{
		VaultID:   s.vault.VaultID(),
		PublicKey: s.vault.PublicKeyHex(),
		Network:   s.vault.Network().String(),
		Format:    string(s.vault.Format()),
	})
}

func (s *Server) handleDepositAddress(w http.ResponseWriter, r *http.Request) {
	var req DepositAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	secureID, err := hex.DecodeString(req.SecureID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	address, err := s.vault.DepositAddress(secureID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, DepositAddressResponse{
		Address: address,
		Network: s.vault.Network().String(),
		Format:  string(s.vault.Format()),
	})
}

func (s *Server) handleIssue(w http.ResponseWriter, r *http.Request) {
	var body json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := schemas.ValidateIssueRequest(body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	req, err := schemas.ParseFromJSON(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	deposit, err := s.vault.HandleIssue(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, deposit)
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrWrongVault):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, ErrRequestConflict):
		writeError(w, http.StatusConflict, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) handleGetDeposits(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.vault.Registry().List())
}

func (s *Server) handleGetDeposit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	deposit, ok := s.vault.Registry().Get(id)
	if !ok {
		http.Error(w, "Deposit not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, deposit)
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	network := s.vault.Network()
	if req.Network != "" {
		n, err := bitcoin.ParseNetwork(req.Network)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		network = n
	}

	address, err := ConvertAddress(req.Address, bitcoin.AddressFormat(req.Format), network)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, ConvertResponse{Address: address})
}

// handleHealth provides health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "btc-vault",
	})
}
