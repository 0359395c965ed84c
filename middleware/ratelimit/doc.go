// Package ratelimit fornece adapters HTTP (net/http) para rate limit e limite de concorrência.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de net/http)
//   - application: casos de uso (decisão allow/deny, acquire/timeout) sem net/http
//   - infra: implementações concretas (token bucket, janela fixa, semáforo, stats)
//   - ratelimit (este pacote): middlewares HTTP + extração de chave + tradução para status/headers
//
// Uso no vitrine:
//
//  1. /api/ai/generate: janela fixa por IP (10 por minuto por padrão) e teto de
//     chamadas simultâneas ao provedor de IA
//  2. /api/contact: token bucket por IP contra spam do formulário
//
// Bloqueio responde 429 com Retry-After (rate limit) ou 503 (concorrência), com
// corpo JSON {"error": "..."} como o resto da API.
package ratelimit
