package messages

import "sort"

// DisplayInfo son los campos de la contraparte que la UI muestra en la
// lista de chats.
type DisplayInfo struct {
	Name      string
	AvatarURL string
}

// placeholder cuando la contraparte no tiene perfil resoluble; la
// conversación igual aparece.
var unknownCounterpart = DisplayInfo{Name: "Usuario"}

// Aggregate agrupa todos los mensajes del usuario en conversaciones,
// una por contraparte. Una sola pasada O(n):
// - el mensaje más reciente queda como representante
// - unread cuenta los mensajes dirigidos a userID con read sin marcar
// El resultado va ordenado descendente por timestamp del representante.
// Empates de timestamp no se desempatan explícitamente (gana el primero
// en el orden de entrada; el sort es estable).
func Aggregate(userID string, msgs []Message, resolve func(counterpartID string) (DisplayInfo, bool)) []Conversation {
	type acc struct {
		last   Message
		unread int
	}

	byCounterpart := make(map[string]*acc)
	order := make([]string, 0)

	for _, m := range msgs {
		other := m.SenderID
		if other == userID {
			other = m.ReceiverID
		}

		a, ok := byCounterpart[other]
		if !ok {
			a = &acc{last: m}
			byCounterpart[other] = a
			order = append(order, other)
		} else if m.CreatedAt.After(a.last.CreatedAt) {
			a.last = m
		}

		if m.ReceiverID == userID && !m.Read {
			a.unread++
		}
	}

	out := make([]Conversation, 0, len(order))
	for _, id := range order {
		a := byCounterpart[id]

		info, ok := unknownCounterpart, false
		if resolve != nil {
			info, ok = resolve(id)
		}
		if !ok {
			info = unknownCounterpart
		}

		out = append(out, Conversation{
			CounterpartID:     id,
			CounterpartName:   info.Name,
			CounterpartAvatar: info.AvatarURL,
			LastMessage:       a.last,
			UnreadCount:       a.unread,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastMessage.CreatedAt.After(out[j].LastMessage.CreatedAt)
	})

	return out
}
