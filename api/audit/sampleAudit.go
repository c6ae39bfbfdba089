package audit

import "net/http"

// sampleCSV is a minimal ledger that exercises every anomaly kind: a repeated
// entry, an out-of-hours posting and round amounts.
const sampleCSV = `Fecha,Cuenta,Debe,Haber,Documento,Hora
2024-01-01,7000,1000,0,INV001,07:45
2024-01-01,7000,1000,0,INV001,07:45
2024-01-02,4300,0,1000,INV002,12:00
2024-01-03,1000,1500,0,COMPRA1,20:00
`

// SampleAuditHandler serves the example ledger file for trying the service.
func SampleAuditHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="ejemplo_asientos.csv"`)
		w.Write([]byte(sampleCSV))
	})
}
