package render

const invoiceHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Invoice {{.Invoice.InvoiceNumber}}</title>
  <style>
    * { margin: 0; padding: 0; box-sizing: border-box; }
    body {
      font-family: 'Helvetica', 'Arial', sans-serif;
      font-size: 14px;
      line-height: 1.6;
      color: #333;
      max-width: 800px;
      margin: 0 auto;
      padding: 40px;
      background: white;
    }
    .watermark {
      position: fixed; top: 50%; left: 50%;
      transform: translate(-50%, -50%) rotate(-45deg);
      opacity: 0.05; font-size: 80px; font-weight: bold; color: #000;
      z-index: -1; white-space: nowrap;
    }
    .header {
      display: flex; justify-content: space-between; align-items: flex-start;
      margin-bottom: 40px; border-bottom: 3px solid {{.ThemeColor}};
      padding-bottom: 20px;
    }
    .logo { max-width: 150px; max-height: 80px; object-fit: contain; }
    .brand-mark { font-size: 24px; font-weight: bold; color: {{.ThemeColor}}; }
    .invoice-title { text-align: right; }
    .invoice-title h1 { font-size: 32px; color: {{.ThemeColor}}; margin-bottom: 5px; }
    .invoice-number { font-size: 18px; font-weight: bold; color: #666; }
    .invoice-info { margin-top: 10px; font-size: 13px; color: #666; }
    .info-row { display: flex; justify-content: space-between; margin-bottom: 5px; }
    .info-label { font-weight: 600; color: #333; }
    .customer-section { display: flex; justify-content: space-between; margin-bottom: 30px; }
    .section-title {
      font-size: 12px; text-transform: uppercase; color: #999;
      margin-bottom: 10px; font-weight: 600;
    }
    .customer-name { font-size: 16px; font-weight: bold; margin-bottom: 5px; }
    .customer-detail { font-size: 13px; color: #666; margin-bottom: 3px; }
    table { width: 100%; border-collapse: collapse; margin-bottom: 20px; }
    th {
      background: {{.ThemeColor}}; color: white; padding: 12px;
      text-align: left; font-weight: 600; font-size: 13px;
    }
    td { padding: 12px; border-bottom: 1px solid #eee; }
    .text-right { text-align: right; }
    .total-section { display: flex; justify-content: flex-end; margin-top: 20px; }
    .total-box { width: 300px; background: #f9f9f9; padding: 20px; border-radius: 8px; }
    .total-row { display: flex; justify-content: space-between; margin-bottom: 10px; font-size: 14px; }
    .total-row.grand-total {
      font-size: 18px; font-weight: bold; color: {{.ThemeColor}};
      border-top: 2px solid #ddd; padding-top: 10px; margin-top: 10px; margin-bottom: 0;
    }
    .notes-section {
      margin-top: 30px; padding: 15px; background: #fff8e1;
      border-left: 4px solid #ffc107; border-radius: 4px;
    }
    .notes-title { font-weight: bold; margin-bottom: 5px; }
    .qris-section {
      margin-top: 30px; text-align: center; padding: 20px;
      background: #f0f0f0; border-radius: 8px;
    }
    .qris-title { font-weight: bold; margin-bottom: 10px; }
    .qris-qr {
      width: 150px; height: 150px; background: white; margin: 0 auto 10px;
      display: flex; align-items: center; justify-content: center;
      border: 1px solid #ddd;
    }
    .footer {
      margin-top: 40px; padding-top: 20px; border-top: 1px solid #eee;
      text-align: center; font-size: 12px; color: #999;
    }
  </style>
</head>
<body>
  {{if .Watermark}}<div class="watermark">INVOICEUMKM - FREE VERSION</div>{{end}}

  <div class="header">
    <div>
      {{if .Invoice.LogoURL}}<img src="{{.Invoice.LogoURL}}" class="logo" alt="Logo">{{else}}<div class="brand-mark">INVOICE</div>{{end}}
    </div>
    <div class="invoice-title">
      <h1>INVOICE</h1>
      <div class="invoice-number">{{.Invoice.InvoiceNumber}}</div>
      <div class="invoice-info">
        <div class="info-row">
          <span class="info-label">Date:</span>
          <span>{{date .Invoice.CreatedAt}}</span>
        </div>
        <div class="info-row">
          <span class="info-label">Status:</span>
          <span style="text-transform: capitalize;">{{.Invoice.Status}}</span>
        </div>
      </div>
    </div>
  </div>

  <div class="customer-section">
    <div class="customer-info">
      <div class="section-title">Billed To</div>
      <div class="customer-name">{{.Invoice.CustomerName}}</div>
      {{if .Invoice.Address}}<div class="customer-detail">{{.Invoice.Address}}</div>{{end}}
      {{if .Invoice.CustomerEmail}}<div class="customer-detail">{{.Invoice.CustomerEmail}}</div>{{end}}
      {{if .Invoice.CustomerPhone}}<div class="customer-detail">{{.Invoice.CustomerPhone}}</div>{{end}}
    </div>
  </div>

  <table>
    <thead>
      <tr>
        <th>Item</th>
        <th class="text-right">Qty</th>
        <th class="text-right">Price</th>
        <th class="text-right">Subtotal</th>
      </tr>
    </thead>
    <tbody>
      {{range .Invoice.Items}}
      <tr>
        <td>
          {{.Name}}
          {{if .Description}}<div style="font-size: 12px; color: #999;">{{.Description}}</div>{{end}}
        </td>
        <td class="text-right">{{.Quantity}}</td>
        <td class="text-right">{{idr .Price}}</td>
        <td class="text-right">{{subtotal .}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>

  <div class="total-section">
    <div class="total-box">
      <div class="total-row grand-total">
        <span>Total</span>
        <span>{{idr .Invoice.Total}}</span>
      </div>
    </div>
  </div>

  {{if .Invoice.Notes}}
  <div class="notes-section">
    <div class="notes-title">Notes</div>
    <div>{{.Invoice.Notes}}</div>
  </div>
  {{end}}

  {{if .ShowQris}}
  <div class="qris-section">
    <div class="qris-title">Pay with QRIS</div>
    <div class="qris-qr">QRIS</div>
    <div>Scan the code with any QRIS-enabled payment app.</div>
  </div>
  {{end}}

  <div class="footer">
    Generated by InvoiceUMKM
  </div>
</body>
</html>
`
