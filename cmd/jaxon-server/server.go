package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/jaxonlabs/jaxon/internal/agent"
	"github.com/jaxonlabs/jaxon/internal/gateway"
	"github.com/jaxonlabs/jaxon/internal/store"
)

type chatServer struct {
	turns         *agent.TurnController
	conversations *store.Conversations
	greeting      string

	// Per-conversation locks: turns on one transcript must serialize.
	locks sync.Map
}

func newChatServer(turns *agent.TurnController, conversations *store.Conversations, greeting string) *chatServer {
	return &chatServer{
		turns:         turns,
		conversations: conversations,
		greeting:      greeting,
	}
}

func (s *chatServer) router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/conversations", s.createConversationHandler).Methods(http.MethodPost)
	r.HandleFunc("/conversations/{id}/messages", s.postMessageHandler).Methods(http.MethodPost)
	r.HandleFunc("/conversations/{id}/messages", s.getTranscriptHandler).Methods(http.MethodGet)
	r.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	return r
}

func (s *chatServer) conversationLock(id string) *sync.Mutex {
	lock, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

type conversationResponse struct {
	ConversationID string `json:"conversation_id"`
	Greeting       string `json:"greeting"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type transcriptResponse struct {
	ConversationID string          `json:"conversation_id"`
	Messages       []agent.Message `json:"messages"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *chatServer) createConversationHandler(w http.ResponseWriter, r *http.Request) {
	conversationID := uuid.New().String()
	greeting := agent.NewAssistantMessage(s.greeting)

	if err := s.conversations.Set(r.Context(), conversationID, []agent.Message{greeting}); err != nil {
		log.Printf("[%s] Failed to create conversation: %v", conversationID, err)
		writeError(w, http.StatusInternalServerError, "failed to create conversation")
		return
	}

	log.Printf("[%s] Conversation created", conversationID)
	writeJSON(w, http.StatusCreated, conversationResponse{
		ConversationID: conversationID,
		Greeting:       greeting.Content,
	})
}

func (s *chatServer) postMessageHandler(w http.ResponseWriter, r *http.Request) {
	conversationID := mux.Vars(r)["id"]

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	lock := s.conversationLock(conversationID)
	lock.Lock()
	defer lock.Unlock()

	messages, err := s.conversations.Get(r.Context(), conversationID)
	if err != nil {
		if errors.Is(err, store.ErrConversationNotFound) {
			writeError(w, http.StatusNotFound, "conversation not found")
			return
		}
		log.Printf("[%s] Failed to load conversation: %v", conversationID, err)
		writeError(w, http.StatusInternalServerError, "failed to load conversation")
		return
	}

	transcript := agent.NewTranscript(messages...)
	reply, err := s.turns.HandleTurn(r.Context(), conversationID, transcript, req.Text)

	// The user message is committed whether or not the turn succeeded; a
	// failed attempt never pollutes the history beyond it.
	if saveErr := s.conversations.Set(r.Context(), conversationID, transcript.Messages()); saveErr != nil {
		log.Printf("[%s] Failed to persist conversation: %v", conversationID, saveErr)
	}

	if err != nil {
		log.Printf("[%s] Turn failed: %v", conversationID, err)
		switch {
		case errors.Is(err, gateway.ErrUnavailable):
			writeError(w, http.StatusBadGateway, "model service unavailable, please retry")
		case errors.Is(err, agent.ErrLoopBudgetExceeded):
			writeError(w, http.StatusInternalServerError, "I couldn't complete that request.")
		default:
			writeError(w, http.StatusInternalServerError, "failed to complete turn")
		}
		return
	}

	writeJSON(w, http.StatusOK, reply)
}

func (s *chatServer) getTranscriptHandler(w http.ResponseWriter, r *http.Request) {
	conversationID := mux.Vars(r)["id"]

	messages, err := s.conversations.Get(r.Context(), conversationID)
	if err != nil {
		if errors.Is(err, store.ErrConversationNotFound) {
			writeError(w, http.StatusNotFound, "conversation not found")
			return
		}
		log.Printf("[%s] Failed to load conversation: %v", conversationID, err)
		writeError(w, http.StatusInternalServerError, "failed to load conversation")
		return
	}

	writeJSON(w, http.StatusOK, transcriptResponse{
		ConversationID: conversationID,
		Messages:       messages,
	})
}

func (s *chatServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
