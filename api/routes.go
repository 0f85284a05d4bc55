package api

import (
	"github.com/garnizeh/zelar/internal/db"
	"github.com/garnizeh/zelar/internal/repository/sqlstore"
	"github.com/garnizeh/zelar/pkg/repository"
	"github.com/gorilla/mux"
)

// Repos groups the repository dependencies of the HTTP handlers.
type Repos struct {
	Users     repository.UserRepo
	Guardians repository.GuardianRepo
	Residents repository.ResidentRepo
	Items     repository.ItemRepo
}

// SetupRoutes wires the handlers onto the SQL-backed store of m. A nil m
// yields a router whose health check reports the database as unavailable.
func SetupRoutes(version, buildTime string, m *db.Manager) *mux.Router {
	var health HealthChecker
	if m != nil {
		health = m
	}
	store := sqlstore.New(m)
	return NewRouter(version, buildTime, health, Repos{Users: store, Guardians: store, Residents: store, Items: store})
}

func NewRouter(version, buildTime string, health HealthChecker, repos Repos) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	systemHandler := NewSystemHandler(health)
	usersHandler := NewUsersHandler(repos.Users)
	guardiansHandler := NewGuardiansHandler(repos.Guardians)
	residentsHandler := NewResidentsHandler(repos.Residents, repos.Items)

	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")

	apiV1 := r.PathPrefix("/v1").Subrouter()

	apiV1.HandleFunc("/users", usersHandler.ListUsers).Methods("GET")
	apiV1.HandleFunc("/users", usersHandler.CreateUser).Methods("POST")
	apiV1.HandleFunc("/users/lookup", usersHandler.LookupUser).Methods("GET")

	apiV1.HandleFunc("/guardians", guardiansHandler.ListGuardians).Methods("GET")
	apiV1.HandleFunc("/guardians", guardiansHandler.CreateGuardian).Methods("POST")

	apiV1.HandleFunc("/residents", residentsHandler.ListResidents).Methods("GET")
	apiV1.HandleFunc("/residents", residentsHandler.CreateResident).Methods("POST")
	apiV1.HandleFunc("/residents/{id:[0-9]+}", residentsHandler.GetResident).Methods("GET")
	apiV1.HandleFunc("/residents/{id:[0-9]+}/items", residentsHandler.ListItems).Methods("GET")
	apiV1.HandleFunc("/residents/{id:[0-9]+}/items", residentsHandler.CreateItem).Methods("POST")

	return r
}
