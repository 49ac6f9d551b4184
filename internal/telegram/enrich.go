package telegram

import (
	"strings"
	"time"

	"github.com/gotd/td/tg"
)

// media kinds produced by classifyMedia
const (
	mediaPhoto    = "photo"
	mediaVideo    = "video"
	mediaAudio    = "audio"
	mediaDocument = "document"
	mediaWebpage  = "webpage"
	mediaLocation = "location"
	mediaContact  = "contact"
	mediaPoll     = "poll"
)

// buildMessage converts a raw telegram message into the normalized record,
// resolving the sender from the page's user/chat maps and classifying any
// attached media.
func buildMessage(m *tg.Message, users map[int64]*tg.User, chans map[int64]*tg.Channel) Message {
	msg := Message{
		ID:   m.ID,
		Date: time.Unix(int64(m.Date), 0).UTC(),
		Text: m.Message,
	}

	msg.Sender, msg.SenderID = senderOf(m, users, chans)

	if media, ok := m.GetMedia(); ok {
		if _, empty := media.(*tg.MessageMediaEmpty); !empty {
			// any attachment counts as media, even kinds we cannot classify
			msg.HasMedia = true
		}
		kind, size, fileName := classifyMedia(media)
		if kind != "" {
			k := kind
			msg.MediaType = &k
		}
		msg.MediaSize = size
		msg.FileName = fileName
	}

	if reactions, ok := m.GetReactions(); ok {
		msg.Reactions = tallyReactions(reactions)
	}

	if views, ok := m.GetViews(); ok {
		msg.Views = views
	}
	if forwards, ok := m.GetForwards(); ok {
		msg.Forwards = forwards
	}
	if fwd, ok := m.GetFwdFrom(); ok {
		msg.IsForwarded = true
		if name, ok := fwd.GetFromName(); ok {
			msg.ForwardFrom = name
		}
	}

	return msg
}

// senderOf classifies the message author as a user or a channel-as-sender.
// Broadcast channel posts carry no from-id; the channel itself is the sender.
func senderOf(m *tg.Message, users map[int64]*tg.User, chans map[int64]*tg.Channel) (*string, *int64) {
	var peer tg.PeerClass
	if from, ok := m.GetFromID(); ok {
		peer = from
	} else {
		peer = m.PeerID
	}

	switch p := peer.(type) {
	case *tg.PeerUser:
		if u, ok := users[p.UserID]; ok {
			name := u.Username
			if name == "" {
				name = u.FirstName
			}
			id := u.ID
			if name == "" {
				return nil, &id
			}
			return &name, &id
		}
	case *tg.PeerChannel:
		if ch, ok := chans[p.ChannelID]; ok {
			name := ch.Username
			if name == "" {
				name = ch.Title
			}
			id := ch.ID
			return &name, &id
		}
	}

	return nil, nil
}

// classifyMedia maps a telegram media class to a normalized media kind.
// Documents are refined by MIME prefix; unknown classes yield "".
func classifyMedia(media tg.MessageMediaClass) (kind string, size int64, fileName string) {
	switch mm := media.(type) {
	case *tg.MessageMediaPhoto:
		return mediaPhoto, 0, ""
	case *tg.MessageMediaDocument:
		doc, ok := mm.GetDocument()
		if !ok {
			return mediaDocument, 0, ""
		}
		d, ok := doc.(*tg.Document)
		if !ok {
			return mediaDocument, 0, ""
		}

		kind = mediaDocument
		switch {
		case strings.HasPrefix(d.MimeType, "image/"):
			kind = mediaPhoto
		case strings.HasPrefix(d.MimeType, "video/"):
			kind = mediaVideo
		case strings.HasPrefix(d.MimeType, "audio/"):
			kind = mediaAudio
		}

		for _, attr := range d.Attributes {
			if fn, ok := attr.(*tg.DocumentAttributeFilename); ok {
				fileName = fn.FileName
				break
			}
		}
		return kind, d.Size, fileName
	case *tg.MessageMediaWebPage:
		return mediaWebpage, 0, ""
	case *tg.MessageMediaGeo:
		return mediaLocation, 0, ""
	case *tg.MessageMediaContact:
		return mediaContact, 0, ""
	case *tg.MessageMediaPoll:
		return mediaPoll, 0, ""
	}
	return "", 0, ""
}

// tallyReactions aggregates emoji reactions into an emoticon -> count map.
func tallyReactions(reactions tg.MessageReactions) map[string]int {
	if len(reactions.Results) == 0 {
		return nil
	}
	tally := make(map[string]int, len(reactions.Results))
	for _, r := range reactions.Results {
		if emoji, ok := r.Reaction.(*tg.ReactionEmoji); ok {
			tally[emoji.Emoticon] = r.Count
		}
	}
	if len(tally) == 0 {
		return nil
	}
	return tally
}
