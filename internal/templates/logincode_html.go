package templates

import (
	"bytes"
	"html/template"
	"time"
)

type LoginCodeEmailData struct {
	RecipientName string
	Code          string
	Validity      time.Duration
}

const loginCodeHTML = `
<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8"/>
  <title>Your OTP Code</title>
  <style>
    body {
      margin: 0;
      padding: 0;
      font-family: Arial, sans-serif;
      background-color: #f5f5f5;
      color: #333;
    }
    .email-container {
      width: 100%;
      max-width: 600px;
      margin: 0 auto;
      background-color: #ffffff;
      border-radius: 6px;
      overflow: hidden;
      box-shadow: 0 2px 5px rgba(0,0,0,0.1);
    }
    .header {
      background-color: #1f4e79;
      padding: 20px;
      text-align: center;
      color: #fff;
    }
    .content {
      padding: 20px;
      text-align: left;
    }
    .code {
      text-align: center;
      font-size: 32px;
      letter-spacing: 8px;
      font-weight: bold;
      margin: 24px 0;
    }
    .footer {
      font-size: 12px;
      color: #999;
      text-align: center;
      padding: 10px 20px;
    }
  </style>
</head>
<body>
  <table class="email-container" role="presentation" cellspacing="0" cellpadding="0">
    <tr>
      <td>
        <div class="header">
          <h1>ServiceConnect</h1>
        </div>
        <div class="content">
          {{if .RecipientName}}
            <p>Hi {{.RecipientName}},</p>
          {{else}}
            <p>Hello,</p>
          {{end}}
          <p>Your OTP code is</p>
          <div class="code">{{.Code}}</div>
          <p>It expires in {{minutes .Validity}} minutes. If you did not try to sign in, you can ignore this email.</p>
        </div>
        <div class="footer">
          <p>You received this because someone signed in to your ServiceConnect account.</p>
        </div>
      </td>
    </tr>
  </table>
</body>
</html>
`

var loginCodeTemplate = template.Must(template.New("login_code").Funcs(template.FuncMap{
	"minutes": func(d time.Duration) int { return int(d.Minutes()) },
}).Parse(loginCodeHTML))

func RenderLoginCodeHTML(data LoginCodeEmailData) (string, error) {
	var buf bytes.Buffer
	if err := loginCodeTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
