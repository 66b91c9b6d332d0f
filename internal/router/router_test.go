package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"maternal-booklet/internal/router"
)

func TestHTTP_EndToEnd_QRGrantLifecycle(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	motherID := "mother-1"
	doctorID := "doctor-1"

	// 1) Madre crea su libreta
	bookletID := createBooklet(t, ts.URL, motherID, map[string]any{
		"label": "Embarazo 2026",
		"notes": "semana 8",
	})

	// 2) Doctor sin grant: 403 en todo acceso a la libreta
	{
		st, _ := doReq(t, ts.URL, "GET", "/booklets/"+bookletID, doctorID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 before grant, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/booklets/"+bookletID+"/records", doctorID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 listing records before grant, got %d", st)
		}
	}

	// 3) Madre emite token QR
	tokenID := issueToken(t, ts.URL, motherID, bookletID)

	// El token solo lo emite la dueña
	{
		st, _ := doReq(t, ts.URL, "POST", "/booklets/"+bookletID+"/access-tokens", doctorID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 issuing token as non-owner, got %d", st)
		}
	}

	// 4) Doctor canjea y obtiene grant
	grantID := redeemToken(t, ts.URL, doctorID, bookletID, tokenID)

	// 5) Re-canje del mismo token: 409
	{
		st, _ := doReq(t, ts.URL, "POST", "/booklets/"+bookletID+"/access-tokens/"+tokenID+"/redeem", doctorID, nil)
		if st != http.StatusConflict {
			t.Fatalf("expected 409 redeeming consumed token, got %d", st)
		}
	}

	// 6) Doctor ya accede: perfil, registros, patient-id
	{
		st, body := doReq(t, ts.URL, "GET", "/booklets/"+bookletID, doctorID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get booklet by doctor, got %d body=%s", st, string(body))
		}
	}
	recordID := createRecord(t, ts.URL, doctorID, bookletID, map[string]any{
		"type":        "CHECKUP",
		"occurred_at": time.Now().UTC().Format(time.RFC3339),
		"title":       "Control semana 9",
		"notes":       "todo normal",
	})
	{
		st, body := doReq(t, ts.URL, "PUT", "/booklets/"+bookletID+"/patient-id", doctorID, map[string]any{
			"external_ref": "HC-2026-001",
			"label":        "HC ambulatorio",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 set patient-id, got %d body=%s", st, string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/booklets/"+bookletID+"/patient-id", doctorID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get patient-id, got %d body=%s", st, string(body))
		}
	}

	// 7) Madre ve al doctor en su lista de accesos; el doctor ve la libreta
	{
		st, body := doReq(t, ts.URL, "GET", "/booklets/"+bookletID+"/grants", motherID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 listing grants as owner, got %d body=%s", st, string(body))
		}
		var grants []struct {
			GrantID      string `json:"grant_id"`
			DoctorUserID string `json:"doctor_user_id"`
		}
		_ = json.Unmarshal(body, &grants)
		if len(grants) != 1 || grants[0].GrantID != grantID || grants[0].DoctorUserID != doctorID {
			t.Fatalf("expected exactly the redeemed grant, got %s", string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/me/grants", doctorID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 listing my grants, got %d body=%s", st, string(body))
		}
	}

	// La lista de grants es solo de la dueña
	{
		st, _ := doReq(t, ts.URL, "GET", "/booklets/"+bookletID+"/grants", doctorID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 listing grants as doctor, got %d", st)
		}
	}

	// 8) Madre revoca; el doctor pierde acceso de inmediato
	{
		st, body := doReq(t, ts.URL, "POST", "/booklets/"+bookletID+"/grants/"+doctorID+"/revoke", motherID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 revoke, got %d body=%s", st, string(body))
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/booklets/"+bookletID, doctorID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 get booklet after revoke, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", "/booklets/"+bookletID+"/records", doctorID, map[string]any{
			"type":        "NOTE",
			"occurred_at": time.Now().UTC().Format(time.RFC3339),
			"title":       "no debería entrar",
		})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 create record after revoke, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/booklets/"+bookletID+"/patient-id", doctorID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 get patient-id after revoke, got %d", st)
		}
	}

	// Revocación idempotente
	{
		st, _ := doReq(t, ts.URL, "POST", "/booklets/"+bookletID+"/grants/"+doctorID+"/revoke", motherID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 on repeated revoke, got %d", st)
		}
	}

	// 9) Re-otorgamiento: token nuevo, grant NUEVO, contexto del doctor intacto
	token2 := issueToken(t, ts.URL, motherID, bookletID)
	grant2 := redeemToken(t, ts.URL, doctorID, bookletID, token2)
	if grant2 == grantID {
		t.Fatalf("expected a new grant row after re-grant, got same id %s", grantID)
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/booklets/"+bookletID+"/patient-id", doctorID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 patient-id restored after re-grant, got %d", st)
		}
		var m struct {
			ExternalRef string `json:"external_ref"`
		}
		_ = json.Unmarshal(body, &m)
		if m.ExternalRef != "HC-2026-001" {
			t.Fatalf("expected mapping retained across revoke, got %s", string(body))
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", "/booklets/"+bookletID+"/records/"+recordID+"/void", doctorID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 void record after re-grant, got %d", st)
		}
	}
}

func TestHTTP_Redeem_BookletMismatch_And_UnknownToken(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	motherID := "mother-1"
	doctorID := "doctor-1"

	bookletA := createBooklet(t, ts.URL, motherID, map[string]any{"label": "Libreta A"})
	bookletB := createBooklet(t, ts.URL, motherID, map[string]any{"label": "Libreta B"})

	tokenA := issueToken(t, ts.URL, motherID, bookletA)

	// Token de A presentado contra B: 409 y el token NO se consume
	{
		st, _ := doReq(t, ts.URL, "POST", "/booklets/"+bookletB+"/access-tokens/"+tokenA+"/redeem", doctorID, nil)
		if st != http.StatusConflict {
			t.Fatalf("expected 409 for booklet mismatch, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", "/booklets/"+bookletA+"/access-tokens/"+tokenA+"/redeem", doctorID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 redeeming against the right booklet, got %d", st)
		}
	}

	// Token inexistente: 404
	{
		st, _ := doReq(t, ts.URL, "POST", "/booklets/"+bookletA+"/access-tokens/no-such-token/redeem", doctorID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 for unknown token, got %d", st)
		}
	}

	// Emitir sobre libreta inexistente responde igual que sobre libreta ajena
	{
		st, _ := doReq(t, ts.URL, "POST", "/booklets/no-such-booklet/access-tokens", motherID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 issuing for unknown booklet, got %d", st)
		}
	}
}

func TestHTTP_CreateRecord_TypedDetails(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	motherID := "mother-77"
	bookletID := createBooklet(t, ts.URL, motherID, map[string]any{
		"label": "Embarazo 2026",
	})

	// Medicación con payload tipado: se valida y vuelve en la respuesta
	st, body := doReq(t, ts.URL, "POST", "/booklets/"+bookletID+"/records", motherID, map[string]any{
		"type":        "MEDICATION_PRESCRIBED",
		"occurred_at": time.Now().UTC().Format(time.RFC3339),
		"title":       "Suplemento",
		"details": map[string]any{
			"name":      "Hierro + ácido fólico",
			"dosage":    "1 comprimido",
			"frequency": "cada 24h",
		},
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 with medication details, got %d body=%s", st, string(body))
	}
	var created struct {
		Details map[string]any `json:"details"`
	}
	_ = json.Unmarshal(body, &created)
	if created.Details["name"] != "Hierro + ácido fólico" {
		t.Fatalf("expected details echoed in response, body=%s", string(body))
	}

	// Sin nombre del medicamento: 400
	st, body = doReq(t, ts.URL, "POST", "/booklets/"+bookletID+"/records", motherID, map[string]any{
		"type":        "MEDICATION_PRESCRIBED",
		"occurred_at": time.Now().UTC().Format(time.RFC3339),
		"details":     map[string]any{"dosage": "1 comprimido"},
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for medication without name, got %d body=%s", st, string(body))
	}
}

func TestHTTP_RequiresAuth(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	// Sin X-Debug-User-ID ni bearer: 401
	st, _ := doReq(t, ts.URL, "GET", "/booklets", "", nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d", st)
	}
}

func createBooklet(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/booklets", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create booklet, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create booklet: missing id body=%s", string(body))
	}
	return resp.ID
}

func issueToken(t *testing.T, baseURL, motherID, bookletID string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/booklets/"+bookletID+"/access-tokens", motherID, nil)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 issue token, got %d body=%s", st, string(body))
	}

	var resp struct {
		TokenID string `json:"token_id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.TokenID == "" {
		t.Fatalf("issue token: missing token_id body=%s", string(body))
	}
	return resp.TokenID
}

func redeemToken(t *testing.T, baseURL, doctorID, bookletID, tokenID string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/booklets/"+bookletID+"/access-tokens/"+tokenID+"/redeem", doctorID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 redeem token, got %d body=%s", st, string(body))
	}

	var resp struct {
		GrantID string `json:"grant_id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.GrantID == "" {
		t.Fatalf("redeem token: missing grant_id body=%s", string(body))
	}
	return resp.GrantID
}

func createRecord(t *testing.T, baseURL, userID, bookletID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/booklets/"+bookletID+"/records", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create record, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create record: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
