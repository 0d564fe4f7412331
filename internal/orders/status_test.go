package orders

import "testing"

func TestNormalizeStatus(t *testing.T) {
	cases := map[string]Status{
		"DELIVERED":             StatusDelivered,
		"delivered":             StatusDelivered,
		"Teslim Edildi":         StatusDelivered,
		"TESLİM EDİLDİ":         StatusDelivered,
		"Completed":             StatusDelivered,
		"Tamamlandı":            StatusDelivered,
		"UnDelivered":           StatusCancelled,
		"Teslim Edilemedi":      StatusCancelled,
		"Cancelled":             StatusCancelled,
		"İptal Edildi":          StatusCancelled,
		"Returned":              StatusCancelled,
		"Shipped":               StatusShipped,
		"Kargoya Verildi":       StatusShipped,
		"Kargoya teslim edildi": StatusShipped,
		"AtCollectionPoint":     StatusShipped,
		"UnPacked":              StatusPreparing,
		"Picking":               StatusPreparing,
		"Invoiced":              StatusPreparing,
		"Hazırlanıyor":          StatusPreparing,
		"Created":               StatusNew,
		"Awaiting":              StatusNew,
		"Onay Bekliyor":         StatusNew,
		"Yeni":                  StatusNew,
		"":                      StatusUnknown,
		"   ":                   StatusUnknown,
		"something strange":     StatusUnknown,
	}
	for raw, want := range cases {
		if got := NormalizeStatus(raw); got != want {
			t.Errorf("NormalizeStatus(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if st, ok := ParseStatus(" delivered "); !ok || st != StatusDelivered {
		t.Fatalf("expected DELIVERED, got %q %v", st, ok)
	}
	if _, ok := ParseStatus("lost"); ok {
		t.Fatalf("expected lost to be rejected")
	}
}
