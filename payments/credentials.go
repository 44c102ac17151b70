package payments

import (
	"github.com/matteusmoreira/IWE-sub001/db"
)

// CredentialResolver picks the Mercado Pago access token for an operation.
// Resolution order: active global credential, then the tenant's active
// credential, then the process-wide fallback token from the environment.
// An empty result means no credential is configured anywhere; callers must
// record that as a per-item failure instead of crashing.
type CredentialResolver struct {
	DB            db.CredentialStorage
	FallbackToken string

	globalLoaded bool
	globalToken  string
}

func NewCredentialResolver(storage db.CredentialStorage, fallbackToken string) *CredentialResolver {
	return &CredentialResolver{
		DB:            storage,
		FallbackToken: fallbackToken,
	}
}

// GlobalToken resolves the global credential, memoized so a sweep does one
// global lookup instead of one per submission.
func (r *CredentialResolver) GlobalToken() (string, error) {
	if r.globalLoaded {
		return r.globalToken, nil
	}

	credential, err := r.DB.GetActiveGlobalCredential()
	if err != nil {
		return "", err
	}

	r.globalLoaded = true
	if credential != nil {
		r.globalToken = credential.AccessToken
	}

	return r.globalToken, nil
}

func (r *CredentialResolver) Resolve(tenantID *string) (string, error) {
	token, err := r.GlobalToken()
	if err != nil {
		return "", err
	}
	if token != "" {
		return token, nil
	}

	if tenantID != nil && *tenantID != "" {
		credential, err := r.DB.GetActiveTenantCredential(*tenantID)
		if err != nil {
			return "", err
		}
		if credential != nil && credential.AccessToken != "" {
			return credential.AccessToken, nil
		}
	}

	return r.FallbackToken, nil
}
