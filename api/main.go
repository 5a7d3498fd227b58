package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/julienschmidt/httprouter"

	. "github.com/medichain/medichain"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	rand.Seed(time.Now().UnixNano())

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	tokens, err := cfg.TokenIssuer()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		log.Fatal(err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal(err)
	}

	db := client.Database(cfg.Mongo.Database)
	patients := db.Collection("patients")
	doctors := db.Collection("doctors")
	hospitals := db.Collection("hospitals")

	for _, c := range []*mongo.Collection{patients, doctors, hospitals} {
		if err := EnsureIndexes(ctx, c); err != nil {
			log.Fatal(err)
		}
	}

	stores := Stores{
		Patients:  NewMongoAccountRepository(RolePatient, patients),
		Doctors:   NewMongoAccountRepository(RoleDoctor, doctors),
		Hospitals: NewMongoAccountRepository(RoleHospital, hospitals),
	}

	svc := NewService(stores, tokens)
	files := NewDiskFileStore(cfg.Uploads.Dir)
	secure := cfg.SecureCookies()

	router := httprouter.New()
	router.Handler(http.MethodPost, "/auth/signup", SignupHandler(svc, secure))
	router.Handler(http.MethodPost, "/auth/login", LoginHandler(svc, secure))
	router.Handler(http.MethodGet, "/auth/me", RequireAuth(MeHandler(svc), tokens))
	router.Handler(http.MethodPost, "/doctor/upload-to-patient/:patientId", RequireAuth(UploadToPatientHandler(svc, files), tokens))

	router.HandlerFunc(http.MethodGet, "/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	router.HandlerFunc(http.MethodGet, "/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message": "Welcome to MediChain API"}`))
	})

	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "Page Not Found"}`))
	})

	log.Printf("Server started. Listening on port: %d\n", cfg.Server.Port)
	log.Fatal(http.ListenAndServe(":"+strconv.Itoa(cfg.Server.Port), router))
}
