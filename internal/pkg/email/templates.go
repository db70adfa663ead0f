package email

// Email templates in HTML format

// BaseTemplate is the base layout for all emails
const BaseTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body {
            margin: 0;
            padding: 0;
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background-color: #101418;
            color: #ffffff;
        }
        .container {
            max-width: 600px;
            margin: 0 auto;
            padding: 40px 20px;
        }
        .card {
            background: #1a2026;
            border-radius: 12px;
            padding: 32px;
            border: 1px solid #2a323a;
        }
        .logo {
            text-align: center;
            margin-bottom: 24px;
        }
        .logo h1 {
            font-size: 28px;
            background: linear-gradient(135deg, #22d3ee 0%, #6366f1 100%);
            -webkit-background-clip: text;
            -webkit-text-fill-color: transparent;
            margin: 0;
        }
        h2 {
            color: #ffffff;
            font-size: 24px;
            margin: 0 0 16px;
        }
        p {
            color: #8a949e;
            font-size: 16px;
            line-height: 1.6;
        }
        .highlight {
            color: #22d3ee;
            font-weight: 600;
        }
        .info-box {
            background: #11161b;
            border-radius: 8px;
            padding: 16px 20px;
            margin: 20px 0;
        }
        .btn {
            display: inline-block;
            background: linear-gradient(135deg, #22d3ee 0%, #6366f1 100%);
            color: #ffffff !important;
            text-decoration: none;
            border-radius: 8px;
            padding: 12px 28px;
            font-weight: 600;
            margin-top: 12px;
        }
        .footer {
            text-align: center;
            color: #5a636c;
            font-size: 13px;
            margin-top: 24px;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="card">
            <div class="logo"><h1>Konekt</h1></div>
            {{.Content}}
        </div>
        <div class="footer">
            <p>You received this email because you have a Konekt account.</p>
        </div>
    </div>
</body>
</html>
`

// TransferReceivedTemplate - points arrived from another user
const TransferReceivedTemplate = `
<h2>You received points</h2>
<p><span class="highlight">{{.SenderName}}</span> sent you points.</p>
<div class="info-box">
    <p><strong>Amount:</strong> {{.Amount}} points</p>
    <p><strong>Transaction:</strong> {{.TransactionCode}}</p>
    {{if .Description}}<p><strong>Note:</strong> {{.Description}}</p>{{end}}
</div>
<p>Your new balance is <span class="highlight">{{.Balance}}</span> points.</p>
`

// MissedCallTemplate - a call went unanswered
const MissedCallTemplate = `
<h2>Missed call</h2>
<p>You missed a {{.CallType}} call from <span class="highlight">{{.CallerName}}</span>.</p>
<p>Open the app to call them back.</p>
`

// NewFollowerTemplate - someone started following the user
const NewFollowerTemplate = `
<h2>New follower</h2>
<p><span class="highlight">{{.FollowerName}}</span> started following you.</p>
<a href="{{.ProfileURL}}" class="btn">View profile</a>
`

// VerificationCodeTemplate - phone/contact verification code
const VerificationCodeTemplate = `
<h2>Your verification code</h2>
<p>Enter this code to verify your contact:</p>
<div class="info-box" style="text-align: center;">
    <p style="font-size: 32px; font-weight: 700; letter-spacing: 8px; color: #22d3ee; margin: 0;">{{.Code}}</p>
</div>
<p>The code expires in {{.TTLMinutes}} minutes.</p>
<p style="color: #5a636c;">If you did not request this code, ignore this email.</p>
`

// WelcomeTemplate - sent after registration
const WelcomeTemplate = `
<h2>Welcome to Konekt</h2>
<p>Hi <span class="highlight">{{.UserName}}</span>, your account is ready.</p>
<p>Find people to follow, start a chat, or hop on a call.</p>
<a href="{{.AppURL}}" class="btn">Open Konekt</a>
`
