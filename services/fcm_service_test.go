package services

import (
	"testing"
)

// TestDisabledFCMService vérifie que le service désactivé est inoffensif
func TestDisabledFCMService(t *testing.T) {
	svc := NewDisabledFCMService()
	if svc == nil {
		t.Fatal("NewDisabledFCMService() ne doit pas retourner nil")
	}
	if svc.Enabled() {
		t.Error("Enabled() doit retourner false sans client Firebase")
	}

	// Les envois sur un service désactivé ne doivent pas paniquer
	success, failed, _ := svc.SendToAll([]string{"a", "b"}, "titre", "corps", nil)
	if success != 0 || failed != 0 {
		t.Errorf("SendToAll sur service désactivé: success=%d, failed=%d", success, failed)
	}
}
