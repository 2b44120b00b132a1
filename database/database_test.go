package database

import (
	"testing"
)

func TestPing_clientNil(t *testing.T) {
	err := Ping(nil)
	if err == nil {
		t.Error("Ping() devrait échouer quand le client est nil")
	}
	if err != nil && err.Error() != "client MongoDB non initialisé" {
		t.Errorf("Ping() erreur = %v", err)
	}
}

func TestClose_clientNil(t *testing.T) {
	if err := Close(nil); err != nil {
		t.Errorf("Close(nil) erreur = %v", err)
	}
}
