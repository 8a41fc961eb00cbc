package report

// ReportTemplate is the HTML layout of the daily report.
// It is embedded as a Go constant, no external file dependencies.
const ReportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
  body { font-family: Arial, sans-serif; padding: 20px; background-color: #f4f4f4; }
  h1 { color: #333; }
  .section { background: white; padding: 15px; margin-bottom: 20px; border-radius: 8px; box-shadow: 0 0 10px rgba(0,0,0,0.1); }
  table { width: 100%; border-collapse: collapse; margin-top: 10px; }
  td, th { padding: 8px 12px; border-bottom: 1px solid #ddd; }
</style>
</head>
<body>
  <h1>🌍 {{.Title}}</h1>
  <p><strong>Timestamp:</strong> {{.Timestamp}}</p>

  <div class="section" id="oil-coal">
    <h2>🛢️ Oil &amp; Coal Prices</h2>
    <table>
    {{- range .OilAndCoal}}
      <tr><td>{{.Label}}</td><td>{{.Value}}</td></tr>
    {{- end}}
    </table>
  </div>

  <div class="section" id="bunker">
    <h2>🚢 Global Average Bunker Price</h2>
    <p>{{.Bunker}}</p>
  </div>

  <div class="section" id="fx">
    <h2>💱 USD to PKR Exchange Rate</h2>
    <p>{{.USDToPKR}}</p>
  </div>

  <div class="section" id="kibor">
    <h2>🏦 KIBOR Rates</h2>
    {{- if .KiborOK}}
    <p>As on {{.KiborDate}}</p>
    <table>
    {{- range .KiborRows}}
      <tr><td>{{.Tenor}}</td><td>Bid: {{.Bid}}%</td><td>Offer: {{.Offer}}%</td></tr>
    {{- end}}
    </table>
    {{- else}}
    <p>{{.KiborMessage}}</p>
    {{- end}}
  </div>

  <div class="section" id="charter">
    <h2>⚓ Daily Charter Rates</h2>
    <ul>
    {{- range .CharterLines}}
      <li>{{.}}</li>
    {{- end}}
    </ul>
  </div>
</body>
</html>
`
