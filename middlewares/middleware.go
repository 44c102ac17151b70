package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/matteusmoreira/IWE-sub001/config"
	"github.com/matteusmoreira/IWE-sub001/helpers"
	"github.com/matteusmoreira/IWE-sub001/models"
	jwtmiddleware "github.com/mfuentesg/go-jwtmiddleware"
	"github.com/mitchellh/mapstructure"
	log "github.com/sirupsen/logrus"

	"github.com/urfave/negroni"
)

func jwtErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	r := &ResponseWriter{Writer: w}
	if err.Error() == "Token is expired" {
		r.Error(http.StatusUnauthorized, "unauthorized", WithErrorScope("token"), WithErrorType(1))
		return
	}
	if err != nil {
		r.Error(http.StatusUnauthorized, "unauthorized", WithErrorScope("token"))
	}
}

func NewJWTMiddleware(secret []byte) *jwtmiddleware.Middleware {
	return jwtmiddleware.New(
		jwtmiddleware.WithErrorHandler(jwtErrorHandler),
		jwtmiddleware.WithSigningMethod(jwt.SigningMethodHS256),
		jwtmiddleware.WithSignKey(secret),
		jwtmiddleware.WithUserProperty("_jwt-token"),
	)
}

func LoggerRequest(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	requestLogger := log.WithFields(log.Fields{"request_id": r.Header.Get("X-Request-ID"), "query": r.URL.Query(), "host": r.Host, "url": r.URL.Path})
	requestLogger.Info("logger_request")
	config.SetLogger(requestLogger)
	next(rw, r)
}

// UserMiddleware decodes the unverified JWT claims into the request context so
// that handlers can check tenant roles. Signature verification happens in the
// per-route JWT middleware; this one only shapes the user info.
func UserMiddleware() negroni.HandlerFunc {
	return negroni.HandlerFunc(func(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
		authorization := r.Header.Get("Authorization")
		if len(authorization) == 0 {
			authorization = r.URL.Query().Get("token")
			r.Header.Set("Authorization", authorization)
		}
		token := strings.Split(authorization, " ")
		if len(token) == 2 {
			tokenString := token[1]
			data, _ := helpers.ParserTokenUnverified(tokenString)
			tokenParse, ok := data["u"].(map[string]interface{})
			if ok {
				id := tokenParse["i"]
				roles := tokenParse["r"]
				email := tokenParse["email"]
				tenantID := tokenParse["t"]
				dataInfo := models.InfoUser{}
				_data := map[string]interface{}{
					"ID":    id,
					"Roles": roles,
				}
				mapstructure.Decode(_data, &dataInfo)
				isAdmin := helpers.Contains(dataInfo.Roles, models.ConstRoles.Admin)
				isStaff := helpers.Contains(dataInfo.Roles, models.ConstRoles.Staff)
				isClient := helpers.Contains(dataInfo.Roles, models.ConstRoles.Client)
				isAPI := helpers.Contains(dataInfo.Roles, models.ConstRoles.API)
				data := map[string]interface{}{
					"Email":    email,
					"ID":       id,
					"TenantID": tenantID,
					"IsAdmin":  isAdmin,
					"IsStaff":  isStaff,
					"IsClient": isClient,
					"IsAPI":    isAPI,
					"Roles":    roles,
				}
				if !isAdmin && !isStaff && !isClient && !isAPI {
					a := &ResponseWriter{Writer: rw}
					a.Error(http.StatusUnauthorized, "unauthorized", WithErrorScope("token"))
					return
				}
				ctx := context.WithValue(r.Context(), string("user"), data)
				next(rw, r.WithContext(ctx))
				return
			}
		}
		next(rw, r)
	})
}
