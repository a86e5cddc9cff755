package discord

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

const (
	MsgTokenMissing      = "Bot Token غير مُعد"
	MsgTokenInvalid      = "Bot Token غير صالح"
	MsgUnknownMember     = "هذا الحساب غير موجود في السيرفر"
	MsgUnknownUser       = "معرف الديسكورد غير صحيح"
	MsgMissingAccess     = "البوت ليس لديه صلاحية الوصول للسيرفر"
	MsgVerificationError = "حدث خطأ في التحقق من العضوية"
	MsgNotMember         = "يجب أن تكون عضواً في السيرفر لتقديم بلاغ"
)

// Membership is the outcome of a community membership lookup.
type Membership struct {
	IsMember bool   `json:"isMember"`
	Username string `json:"username,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Checker is what report submission depends on.
type Checker interface {
	Verify(ctx context.Context, discordID string) Membership
}

// MemberFetcher is the slice of *discordgo.Session the verifier uses.
type MemberFetcher interface {
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
}

type Verifier struct {
	members MemberFetcher
	guildID string
	logger  *slog.Logger
}

// NewVerifier opens a REST-only discordgo session. An empty token yields a
// verifier that reports MsgTokenMissing for every lookup.
func NewVerifier(botToken, guildID string, logger *slog.Logger) (*Verifier, error) {
	if logger == nil {
		logger = slog.Default()
	}
	v := &Verifier{guildID: guildID, logger: logger}
	if botToken == "" {
		return v, nil
	}
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, err
	}
	v.members = session
	return v, nil
}

// NewVerifierWithFetcher is used by tests and by callers that share a session.
func NewVerifierWithFetcher(members MemberFetcher, guildID string, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{members: members, guildID: guildID, logger: logger}
}

func (v *Verifier) Verify(ctx context.Context, discordID string) Membership {
	if v.members == nil {
		v.logger.Error("discord bot token not configured")
		return Membership{Error: MsgTokenMissing}
	}

	member, err := v.members.GuildMember(v.guildID, discordID, discordgo.WithContext(ctx))
	if err != nil {
		msg := classify(err)
		v.logger.Warn("discord membership lookup failed", "discord_id", discordID, "reason", msg, "error", err)
		return Membership{Error: msg}
	}

	out := Membership{IsMember: true}
	if member != nil && member.User != nil {
		out.Username = member.User.String()
	}
	return out
}

func classify(err error) string {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return MsgVerificationError
	}
	if restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeUnknownMember:
			return MsgUnknownMember
		case discordgo.ErrCodeUnknownUser:
			return MsgUnknownUser
		case discordgo.ErrCodeMissingAccess:
			return MsgMissingAccess
		}
	}
	if restErr.Response != nil && restErr.Response.StatusCode == http.StatusUnauthorized {
		return MsgTokenInvalid
	}
	return MsgVerificationError
}
