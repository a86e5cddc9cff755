package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

const passwordResetSubject = "إعادة تعيين كلمة المرور - Phantom RP Police"

var passwordResetTemplate = template.Must(template.New("password_reset").Parse(`<div dir="rtl" style="font-family: 'Cairo', 'Segoe UI', sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #1a1a2e; color: #ffffff;">
  <div style="text-align: center; margin-bottom: 30px;">
    <h1 style="color: #3b82f6;">Phantom RP Police</h1>
  </div>
  <div style="background-color: #16213e; padding: 30px; border-radius: 10px;">
    <h2 style="margin-bottom: 20px; color: #ffffff;">إعادة تعيين كلمة المرور</h2>
    <p style="color: #94a3b8; line-height: 1.8;">لقد تلقينا طلباً لإعادة تعيين كلمة المرور الخاصة بحسابك.</p>
    <p style="color: #94a3b8; line-height: 1.8;">اضغط على الزر أدناه لإعادة تعيين كلمة المرور:</p>
    <div style="text-align: center; margin: 30px 0;">
      <a href="{{.Link}}" style="display: inline-block; background-color: #3b82f6; color: #ffffff; padding: 15px 40px; text-decoration: none; border-radius: 8px; font-weight: bold;">إعادة تعيين كلمة المرور</a>
    </div>
    <p style="color: #64748b; font-size: 14px; line-height: 1.8;">صلاحية هذا الرابط: {{.ValidMinutes}} دقيقة فقط.</p>
    <p style="color: #64748b; font-size: 14px; line-height: 1.8;">إذا لم تطلب إعادة تعيين كلمة المرور، يمكنك تجاهل هذا البريد الإلكتروني.</p>
  </div>
  <div style="text-align: center; margin-top: 30px; color: #64748b; font-size: 12px;">
    <p>Phantom RP Police Department</p>
  </div>
</div>
`))

type passwordResetData struct {
	Link         string
	ValidMinutes int
}

func renderPasswordReset(link string, validFor time.Duration) (string, error) {
	var buf bytes.Buffer
	data := passwordResetData{Link: link, ValidMinutes: int(validFor / time.Minute)}
	if err := passwordResetTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func plainPasswordReset(link string, validFor time.Duration) string {
	return fmt.Sprintf("لقد تلقينا طلباً لإعادة تعيين كلمة المرور الخاصة بحسابك.\n\n%s\n\nصلاحية هذا الرابط: %d دقيقة فقط.\n",
		link, int(validFor/time.Minute))
}
