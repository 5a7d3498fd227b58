package medichain

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
)

// Cookie lifetime matches the signup token lifetime regardless of the
// session token's shorter expiry.
const tokenCookieMaxAge = 7 * 24 * time.Hour

type authResponse struct {
	Message    string   `json:"message"`
	RedirectTo string   `json:"redirectTo"`
	User       *Account `json:"user"`
	Token      string   `json:"token,omitempty"`
}

func SignupHandler(svc Service, secureCookies bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		req, err := decodeSignupRequest(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			encodeMessage("invalid request body", w)
			return
		}

		acc, token, err := svc.Signup(req)
		if err != nil {
			encodeError(err, w)
			return
		}

		setTokenCookie(w, token, secureCookies, false)
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(authResponse{
			Message:    "account created",
			RedirectTo: RedirectPath(acc.Role),
			User:       acc,
			Token:      token,
		}); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
}

func LoginHandler(svc Service, secureCookies bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		req, err := decodeLoginRequest(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			encodeMessage("invalid request body", w)
			return
		}

		acc, token, err := svc.Login(req)
		if err != nil {
			encodeError(err, w)
			return
		}

		setTokenCookie(w, token, secureCookies, true)
		if err := json.NewEncoder(w).Encode(authResponse{
			Message:    "access granted",
			RedirectTo: RedirectPath(acc.Role),
			User:       acc,
			Token:      token,
		}); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
}

// MeHandler returns the account behind the authenticated request.
func MeHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		acc, err := svc.Account(claims.Role, ID(claims.Subject))
		if err != nil {
			encodeError(err, w)
			return
		}

		if err := json.NewEncoder(w).Encode(map[string]interface{}{"user": acc}); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
}

// UploadToPatientHandler lets a doctor attach an uploaded document to a
// patient's record. The file itself goes through the injected FileStore;
// only the resulting URL is kept on the account.
func UploadToPatientHandler(svc Service, files FileStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || claims.Role != RoleDoctor {
			w.WriteHeader(http.StatusForbidden)
			encodeMessage("access denied", w)
			return
		}

		patientID := httprouter.ParamsFromContext(r.Context()).ByName("patientId")

		file, header, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			encodeMessage("file upload failed", w)
			return
		}
		defer file.Close()

		fileURL, err := files.Save(patientID, file, header.Filename)
		if err != nil {
			log.Printf("error storing upload for patient %s: %v", patientID, err)
			encodeError(err, w)
			return
		}

		patient, err := svc.AttachDocument(ID(patientID), fileURL)
		if err != nil {
			encodeError(err, w)
			return
		}

		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "file uploaded to patient record",
			"fileUrl": fileURL,
			"uid":     patient.UID,
		}); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
}

type contextKey string

const claimsContextKey = contextKey("claims")

// RequireAuth verifies the token cookie (or Authorization bearer) and
// makes its claims available on the request context.
func RequireAuth(next http.Handler, tokens *TokenIssuer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := ""
		if c, err := r.Cookie("token"); err == nil {
			tokenString = c.Value
		} else if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			tokenString = strings.TrimPrefix(h, "Bearer ")
		}

		if tokenString == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok
}

func setTokenCookie(w http.ResponseWriter, token string, secure, strict bool) {
	c := &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		MaxAge:   int(tokenCookieMaxAge / time.Second),
	}
	if strict {
		c.SameSite = http.SameSiteStrictMode
	}
	http.SetCookie(w, c)
}

func encodeError(err error, w http.ResponseWriter) {
	switch err {
	case ErrInvalidRole, ErrMissingFields, ErrExistingAccount, ErrMissingProfile, ErrMissingLicense:
		w.WriteHeader(http.StatusBadRequest)
	case ErrMissingCredentials, ErrInvalidCredentials:
		w.WriteHeader(http.StatusUnauthorized)
	case ErrNotFound:
		w.WriteHeader(http.StatusNotFound)
	default:
		w.WriteHeader(http.StatusInternalServerError)
		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "unexpected server error",
			"error":   err.Error(),
		}); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}
	encodeMessage(err.Error(), w)
}

func encodeMessage(msg string, w http.ResponseWriter) {
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"message": msg}); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func decodeSignupRequest(body io.ReadCloser) (signupRequest, error) {
	req := signupRequest{}
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return signupRequest{}, err
	}
	return req, nil
}

func decodeLoginRequest(body io.ReadCloser) (loginRequest, error) {
	req := loginRequest{}
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return loginRequest{}, err
	}
	return req, nil
}
