package qdrant

import (
	"fmt"
	"net"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"github.com/w-h-a/newsagent/article"
	"github.com/w-h-a/newsagent/index"
	getsafe "github.com/w-h-a/newsagent/util/get_safe"
)

const (
	defaultPort = 6334

	fieldRecordId = "record_id"
	fieldTitle    = "title"
	fieldContent  = "content"
	fieldURL      = "url"
	fieldDate     = "date"
)

// Qdrant only accepts uuids or integers as point ids.
var pointNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("newsagent/article"))

func pointId(recordId string) string {
	return uuid.NewSHA1(pointNamespace, []byte(recordId)).String()
}

func toPoint(rec index.Record) *qdrant.PointStruct {
	return &qdrant.PointStruct{
		Id:      qdrant.NewID(pointId(rec.Id)),
		Vectors: qdrant.NewVectorsDense(rec.Embedding),
		Payload: qdrant.NewValueMap(map[string]any{
			fieldRecordId: rec.Id,
			fieldTitle:    rec.Metadata.Title,
			fieldContent:  rec.Metadata.Content,
			fieldURL:      rec.Metadata.URL,
			fieldDate:     rec.Metadata.Date,
		}),
	}
}

func toMatch(point *qdrant.ScoredPoint) index.Match {
	payload := point.GetPayload()

	return index.Match{
		Id:    getsafe.StringOr(payload, fieldRecordId, point.GetId().GetUuid()),
		Score: point.GetScore(),
		Metadata: article.Article{
			Title:   getsafe.String(payload, fieldTitle),
			Content: getsafe.String(payload, fieldContent),
			URL:     getsafe.String(payload, fieldURL),
			Date:    getsafe.String(payload, fieldDate),
		},
	}
}

func toFilter(f *index.Filter) *qdrant.Filter {
	if f == nil {
		return nil
	}
	return &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch(fieldURL, f.URL),
		},
	}
}

func parseLocation(loc string) (string, int, error) {
	if len(loc) == 0 {
		return "", 0, fmt.Errorf("%w: missing location", index.ErrIndexUnavailable)
	}

	host, portStr, err := net.SplitHostPort(loc)
	if err != nil {
		return loc, defaultPort, nil
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("%w: invalid port %q", index.ErrIndexUnavailable, portStr)
	}

	return host, port, nil
}
